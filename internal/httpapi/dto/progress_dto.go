package dto

// DTOs for progress recording and profile updates

type RecordProgressRequest struct {
	PagesRead      int    `json:"pages_read" binding:"gte=0"`
	IdempotencyKey string `json:"idempotency_key"`
}

type StartBookRequest struct {
	Book       string `json:"book" binding:"required"`
	TotalPages int    `json:"total_pages" binding:"required,gt=0"`
}
