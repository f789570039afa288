package document

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBodyValidate(t *testing.T) {
	require.NoError(t, CodeBody("go").Validate())
	require.NoError(t, NoteBody().Validate())

	err := Body{Kind: KindCode}.Validate()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrValidation))

	err = Body{Kind: KindNote, Language: "go"}.Validate()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrValidation))

	err = Body{Kind: "image"}.Validate()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrValidation))
}
