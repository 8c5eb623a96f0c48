package dto

type CreateCategoryRequest struct {
	Name        string  `json:"name" validate:"required"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
}

type CreateTagRequest struct {
	Name string `json:"name" validate:"required"`
	Slug string `json:"slug"`
}

type UpdateTagRequest struct {
	Name *string `json:"name"`
	Slug *string `json:"slug"`
}
