package httputil

import (
	"net/http"
	"time"
)

type Clients struct {
	Inference *http.Client // HuggingFace / OpenAI; model loading can be slow
	Feed      *http.Client // spot price quotes
}

func NewClients() *Clients {
	return &Clients{
		Inference: &http.Client{Timeout: 60 * time.Second},
		Feed:      &http.Client{Timeout: 15 * time.Second},
	}
}
