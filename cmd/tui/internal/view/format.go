package view

import (
	"context"
	"strconv"
	"time"
)

// turnTimeout bounds one conversational turn, extractor round-trip included.
const turnTimeout = 90 * time.Second

// FormatNumber formats a quantity or rate without trailing zeros.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// TurnCtx returns a context with the standard timeout for extractor calls.
func TurnCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), turnTimeout)
}
