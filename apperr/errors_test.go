package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindAndStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		kind   Kind
		status int
		code   string
	}{
		{"Validation", Validation(map[string]string{"title": "required"}), KindValidation, http.StatusUnprocessableEntity, "validation_failed"},
		{"Credentials", fmt.Errorf("sign in: %w", ErrInvalidCredentials), KindValidation, http.StatusUnauthorized, "invalid_credentials"},
		{"Unconfirmed", ErrEmailNotConfirmed, KindValidation, http.StatusForbidden, "email_not_confirmed"},
		{"NotFound", fmt.Errorf("update: %w", ErrNotFound), KindDataAccess, http.StatusNotFound, "not_found"},
		{"Forbidden", ErrForbidden, KindDataAccess, http.StatusForbidden, "forbidden"},
		{"Store", DataAccess("list documents", errors.New("connection refused")), KindDataAccess, http.StatusInternalServerError, "data_access"},
		{"Other", errors.New("boom"), KindUnexpected, http.StatusInternalServerError, "unexpected"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, KindOf(tt.err))
			assert.Equal(t, tt.status, Status(tt.err))
			assert.Equal(t, tt.code, Code(tt.err))
		})
	}
}

func TestDataAccessUnwraps(t *testing.T) {
	err := DataAccess("delete document", ErrNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, DataAccess("noop", nil))
}

func TestNotify(t *testing.T) {
	fallback := Notification{Title: "Erro", Description: "Não foi possível salvar o documento."}

	n := Notify(DataAccess("insert", errors.New("timeout")), fallback)
	assert.Equal(t, VariantDestructive, n.Variant)
	assert.Equal(t, "Erro", n.Title)
	assert.Equal(t, "Não foi possível salvar o documento.", n.Description)

	n = Notify(ErrForbidden, fallback)
	assert.Equal(t, "Você não tem permissão para esta ação.", n.Description)

	n = Notify(errors.New("panic"), fallback)
	assert.Equal(t, "Ocorreu um erro inesperado. Tente novamente.", n.Description)

	assert.Equal(t, VariantDefault, Success("Sucesso", "ok").Variant)
}

func TestValidationErrorMessageIsSorted(t *testing.T) {
	err := Validation(map[string]string{"title": "required", "category": "invalid"})
	assert.Equal(t, "validation failed: category: invalid, title: required", err.Error())
}
