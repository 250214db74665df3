package gateway

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"postgres undefined table", &pgconn.PgError{Code: "42P01", Message: `relation "public.machines" does not exist`}, MissingCollection},
		{"postgres other code", &pgconn.PgError{Code: "42501", Message: "permission denied for table machines"}, OtherError},
		{"wrapped postgres error", fmt.Errorf("query: %w", &pgconn.PgError{Code: "42P01"}), MissingCollection},
		{"schema cache", errors.New("Could not find the table 'public.tools' in the schema cache"), MissingCollection},
		{"schema cache code", errors.New("PGRST205"), MissingCollection},
		{"sqlite", errors.New("no such table: production_records"), MissingCollection},
		{"relation text", errors.New(`relation "cnc_time_logs" does not exist`), MissingCollection},
		{"column does not exist", errors.New(`column "oee" does not exist`), OtherError},
		{"network", errors.New("dial tcp 10.0.0.1:5432: connect: connection refused"), OtherError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Classify(CollectionMachines, tc.err)

			var ce *CollectionError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tc.want, ce.Kind)
			assert.Equal(t, CollectionMachines, ce.Collection)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestClassifyNilAndPassThrough(t *testing.T) {
	assert.NoError(t, Classify(CollectionTools, nil))

	first := Classify(CollectionTools, errors.New("no such table: tools"))
	again := Classify(CollectionMachines, fmt.Errorf("wrapped: %w", first))

	kind, ok := KindOf(again)
	require.True(t, ok)
	assert.Equal(t, MissingCollection, kind)
	assert.Same(t, first, again)
}

func TestKindHelpers(t *testing.T) {
	_, ok := KindOf(errors.New("plain"))
	assert.False(t, ok)
	assert.False(t, IsMissingCollection(nil))
	assert.False(t, IsMissingCollection(errors.New("no such table: tools")))
	assert.True(t, IsMissingCollection(Classify(CollectionTools, errors.New("no such table: tools"))))
}

func TestMessage(t *testing.T) {
	err := Classify(CollectionMachines, errors.New("boom"))
	assert.Equal(t, "machines: boom", err.Error())
	assert.Equal(t, "boom", Message(err))
	assert.Equal(t, "plain", Message(errors.New("plain")))
	assert.Equal(t, "", Message(nil))
}
