package fieldmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "clientdeadline", Normalize("Client Deadline"))
	assert.Equal(t, "clientdeadline", Normalize("client_deadline"))
	assert.Equal(t, "clientdeadline", Normalize("clientdeadline"))
	assert.Equal(t, "rev", Normalize("REV"))
	assert.Equal(t, "", Normalize(""))
}

func TestKey(t *testing.T) {
	row := map[string]interface{}{
		"client_deadline": "2025-01-31",
		"Final Amt":       "5000",
	}
	assert.Equal(t, "client_deadline", Key(row, "Client Deadline"))
	assert.Equal(t, "Final Amt", Key(row, "final_amt"))
	assert.Equal(t, "", Key(row, "margin"))
}

func TestValue_MissingIsNil(t *testing.T) {
	row := map[string]interface{}{"rev": "1"}
	assert.Equal(t, "1", Value(row, "Rev"))
	assert.Nil(t, Value(row, "submitted_date"))
}
