package response

var (
	ErrInvalidRequestFormat = ErrorResponse{
		Status:  "error",
		Error:   "invalid_request",
		Details: "Invalid request format",
	}

	ErrAuthenticationFailed = ErrorResponse{
		Status: "error",
		Error:  "authentication_failed",
	}

	ErrCatalogUnavailable = ErrorResponse{
		Status:  "error",
		Error:   "catalog_unavailable",
		Details: "The catalog could not be queried",
	}

	ErrModelNotFound = ErrorResponse{
		Status:  "error",
		Error:   "model_not_found",
		Details: "No such mental model",
	}

	ErrForbidden = ErrorResponse{
		Status:  "error",
		Error:   "forbidden",
		Details: "Editor role required",
	}
)
