package ledger

import (
	"errors"

	"github.com/MrJamesThe3rd/controlfin/internal/finance"
	"github.com/MrJamesThe3rd/controlfin/internal/local"
	"github.com/MrJamesThe3rd/controlfin/internal/rowstore"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is a message for the user about the outcome of an operation.
type Notification struct {
	Level   Level
	Message string
}

type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// Discard is a Notifier that drops every notification.
var Discard = NotifierFunc(func(Notification) {})

const msgUnreachable = "No se pudo conectar con la base de datos"

// describe renders err for the user. Backend rejections keep their code,
// details and hint.
func describe(err error) string {
	var ve *finance.ValidationError
	if errors.As(err, &ve) {
		return ve.Reason
	}

	if rowstore.IsConnectivity(err) {
		return msgUnreachable
	}

	if be, ok := rowstore.AsError(err); ok {
		return be.Error()
	}

	switch {
	case errors.Is(err, rowstore.ErrNotFound):
		return "El registro no existe"
	case errors.Is(err, local.ErrNoCategory):
		return "La categoría no existe"
	}

	return err.Error()
}
