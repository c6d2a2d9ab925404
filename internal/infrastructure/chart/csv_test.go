package chart

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accountpro/bookkeeper/internal/domain"
)

func TestRead(t *testing.T) {
	in := Header + "\n" +
		"1930,Företagskonto,Assets,Bank\n" +
		"3001, Försäljning varor ,,\n" +
		"\"5010\",\"Lokalhyra, kontor\",Expenses,\"Rent, office\"\n"

	inputs, err := Read(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, inputs, 3)

	assert.Equal(t, "1930", inputs[0].Number)
	assert.Equal(t, domain.AccountClassAssets, inputs[0].Class)
	assert.Equal(t, "Försäljning varor", inputs[1].Name)
	assert.Empty(t, inputs[1].Class)
	assert.Equal(t, "Lokalhyra, kontor", inputs[2].Name)
	assert.Equal(t, "Rent, office", inputs[2].Description)
}

func TestReadEmpty(t *testing.T) {
	inputs, err := Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, inputs)
}

func TestReadRejectsBadHeader(t *testing.T) {
	_, err := Read(strings.NewReader("konto,namn,klass,beskrivning\n1930,Bank,,\n"))
	assert.True(t, errors.Is(err, ErrBadHeader))
}

func TestReadRejectsWrongFieldCount(t *testing.T) {
	_, err := Read(strings.NewReader(Header + "\n1930,Bank\n"))
	assert.Error(t, err)
}

func TestWriteThenReadFile(t *testing.T) {
	accounts := []*domain.Account{
		{Number: "1510", Name: "Kundfordringar", Class: domain.AccountClassAssets, Description: "Accounts receivable"},
		{Number: "2440", Name: "Leverantörsskulder", Class: domain.AccountClassEquityLiabilities},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, accounts))

	path := filepath.Join(t.TempDir(), "accounts.csv")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	inputs, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, inputs, 2)
	assert.Equal(t, "2440", inputs[1].Number)
	assert.Equal(t, domain.AccountClassEquityLiabilities, inputs[1].Class)
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
