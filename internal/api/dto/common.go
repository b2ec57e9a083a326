package dto

import "github.com/echofinder/api/internal/apperr"

// ErrorEnvelope is the uniform error shape for every non-2xx response:
// {"error":{"code":"...","message":"...","details":{...}}}
type ErrorEnvelope struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    apperr.Code    `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func NewError(code apperr.Code, message string) ErrorEnvelope {
	return ErrorEnvelope{Error: ErrorDetail{Code: code, Message: message}}
}

func NewErrorDetails(code apperr.Code, message string, details map[string]any) ErrorEnvelope {
	return ErrorEnvelope{Error: ErrorDetail{Code: code, Message: message, Details: details}}
}

type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PerPage    int         `json:"per_page"`
	TotalPages int         `json:"total_pages"`
}

type PaginationParams struct {
	Page    int
	PerPage int
}

func (p *PaginationParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = 20
	}
	if p.PerPage > 100 {
		p.PerPage = 100
	}
}

func (p *PaginationParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}
