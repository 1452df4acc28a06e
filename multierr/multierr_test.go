package multierr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErr(t *testing.T) {
	t.Parallel()

	var errs Err
	require.NoError(t, errs.OrNil())

	errNotFound := errors.New("not found")
	errs.Add(nil)
	errs.Add(errNotFound)
	errs.Add(errors.New("closed"))

	require.Equal(t, 2, errs.Len())
	err := errs.OrNil()
	require.EqualError(t, err, "not found; closed")
	require.ErrorIs(t, err, errNotFound)
}
