package dto

import "github.com/BruksfildServices01/salon-onboarding/internal/models"

type TransactionListResponse struct {
	Page         int                  `json:"page"`
	Limit        int                  `json:"limit"`
	Total        int64                `json:"total"`
	Transactions []models.Transaction `json:"transactions"`
}

type UserListResponse struct {
	Users []models.User `json:"users"`
}

type CatalogResponse struct {
	Hairstyles []models.Hairstyle `json:"hairstyles"`
}

type ImageUploadResponse struct {
	URL string `json:"url"`
	Key string `json:"key"`
}
