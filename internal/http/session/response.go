package session

import (
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/invoicer/internal/engine"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

type stateResponse struct {
	engine.State
	Missing []string `json:"missing"`
}

type createResponse struct {
	ID uuid.UUID `json:"id"`
	stateResponse
}

type turnResponse struct {
	Reply string        `json:"reply"`
	Done  bool          `json:"done"`
	State stateResponse `json:"state"`
}

type itemResponse struct {
	Item  invoice.LineItem `json:"item"`
	State stateResponse    `json:"state"`
}

type transcriptResponse struct {
	Turns   int           `json:"turns"`
	Applied int           `json:"applied"`
	Error   string        `json:"error,omitempty"`
	State   stateResponse `json:"state"`
}

func toStateResponse(state engine.State) stateResponse {
	missing := invoice.Missing(state.Record)
	if missing == nil {
		missing = []string{}
	}

	return stateResponse{State: state, Missing: missing}
}

func toCreateResponse(id uuid.UUID, state engine.State) createResponse {
	return createResponse{ID: id, stateResponse: toStateResponse(state)}
}
