package knowledgegraph

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xkilldash9x/owl2lpg/api/schemas"
	"github.com/xkilldash9x/owl2lpg/internal/cypher"
)

var nodeColumns = []string{"id", "labels", "properties"}

var edgeColumns = []string{"id", "label", "properties", "from_id", "from_labels", "from_properties", "to_id", "to_labels", "to_properties"}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mockPool, err := pgxmock.NewPool(pgxmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)
	return mockPool
}

func TestOpenPostgresKG(t *testing.T) {
	ctx := context.Background()

	t.Run("should return error if ping fails", func(t *testing.T) {
		mockPool := newMockPool(t)
		pingErr := errors.New("database unavailable")
		mockPool.ExpectPing().WillReturnError(pingErr)

		_, err := OpenPostgresKG(ctx, mockPool, zap.NewNop())
		require.Error(t, err)
		assert.ErrorIs(t, err, pingErr, "Error from ping should be propagated")
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("should create the schema", func(t *testing.T) {
		mockPool := newMockPool(t)
		mockPool.ExpectPing()
		mockPool.ExpectExec(regexp.QuoteMeta(Schema)).WillReturnResult(pgxmock.NewResult("CREATE", 0))

		kg, err := OpenPostgresKG(ctx, mockPool, nil)
		require.NoError(t, err)
		assert.NotNil(t, kg)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPostgresRun(t *testing.T) {
	ctx := context.Background()
	doc := schemas.DocumentContext{ProjectID: "p1", BranchID: "main", DocumentID: "doc-1"}

	t.Run("should merge containers in one transaction", func(t *testing.T) {
		mockPool := newMockPool(t)
		kg := NewPostgresKG(mockPool, zap.NewNop())

		stmts, err := cypher.ContainerStatements(doc)
		require.NoError(t, err)

		mockPool.ExpectBegin()
		for _, n := range []struct{ label, props string }{
			{"Project", `{"projectId":"p1"}`},
			{"Branch", `{"branchId":"main"}`},
			{"OntologyDocument", `{"ontologyDocumentId":"doc-1"}`},
		} {
			mockPool.ExpectQuery(regexp.QuoteMeta(sqlFindNodes)).
				WithArgs([]string{n.label}, []byte(n.props)).
				WillReturnRows(mockPool.NewRows(nodeColumns))
			mockPool.ExpectExec(regexp.QuoteMeta(sqlNewNode)).
				WithArgs(pgxmock.AnyArg(), []string{n.label}, []byte(n.props)).
				WillReturnResult(pgxmock.NewResult("INSERT", 1))
		}
		for _, label := range []string{"BRANCH", "ONTOLOGY_DOCUMENT"} {
			mockPool.ExpectQuery(regexp.QuoteMeta(sqlOutEdges)).
				WithArgs(pgxmock.AnyArg()).
				WillReturnRows(mockPool.NewRows(edgeColumns))
			mockPool.ExpectExec(regexp.QuoteMeta(sqlNewEdge)).
				WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), label, []byte(`{}`)).
				WillReturnResult(pgxmock.NewResult("INSERT", 1))
		}
		mockPool.ExpectCommit()

		require.NoError(t, kg.Run(ctx, stmts))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("should reuse an existing node", func(t *testing.T) {
		mockPool := newMockPool(t)
		kg := NewPostgresKG(mockPool, zap.NewNop())
		stmt := cypher.Statement{Clauses: []cypher.Clause{
			cypher.Merge{Node: cypher.NodePattern{Var: "a", Labels: []schemas.NodeLabel{schemas.LabelIRI}, Props: iriProps("http://example.org/C")}},
		}}

		mockPool.ExpectBegin()
		mockPool.ExpectQuery(regexp.QuoteMeta(sqlFindNodes)).
			WithArgs([]string{"IRI"}, []byte(`{"iri":"http://example.org/C"}`)).
			WillReturnRows(mockPool.NewRows(nodeColumns).AddRow("n-1", []string{"IRI"}, []byte(`{"iri":"http://example.org/C"}`)))
		mockPool.ExpectCommit()

		require.NoError(t, kg.Run(ctx, []cypher.Statement{stmt}))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("should sweep orphans", func(t *testing.T) {
		mockPool := newMockPool(t)
		kg := NewPostgresKG(mockPool, zap.NewNop())

		mockPool.ExpectBegin()
		mockPool.ExpectExec(regexp.QuoteMeta(sqlSweep)).WillReturnResult(pgxmock.NewResult("DELETE", 3))
		mockPool.ExpectCommit()

		require.NoError(t, kg.Run(ctx, []cypher.Statement{{Clauses: []cypher.Clause{cypher.SweepOrphans{}}}}))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("should roll back a failing statement", func(t *testing.T) {
		mockPool := newMockPool(t)
		kg := NewPostgresKG(mockPool, zap.NewNop())
		dbErr := errors.New("connection reset")

		mockPool.ExpectBegin()
		mockPool.ExpectExec(regexp.QuoteMeta(sqlSweep)).WillReturnError(dbErr)
		mockPool.ExpectRollback()

		err := kg.Run(ctx, []cypher.Statement{{Clauses: []cypher.Clause{cypher.SweepOrphans{}}}})
		assert.ErrorIs(t, err, dbErr)
		assert.ErrorContains(t, err, "statement 1 of 1 failed")
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("should roll back exactly once without masking the cause", func(t *testing.T) {
		mockPool := newMockPool(t)
		core, logs := observer.New(zap.ErrorLevel)
		kg := NewPostgresKG(mockPool, zap.New(core))
		dbErr := errors.New("connection reset")

		mockPool.ExpectBegin()
		mockPool.ExpectExec(regexp.QuoteMeta(sqlSweep)).WillReturnError(dbErr)
		mockPool.ExpectRollback()

		err := kg.Run(ctx, []cypher.Statement{{Clauses: []cypher.Clause{cypher.SweepOrphans{}}}})
		require.ErrorIs(t, err, dbErr)
		assert.Zero(t, logs.Len(), "the single rollback is expected and succeeds")
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("should stop at a failed commit", func(t *testing.T) {
		mockPool := newMockPool(t)
		kg := NewPostgresKG(mockPool, zap.NewNop())
		commitErr := errors.New("serialization failure")

		mockPool.ExpectBegin()
		mockPool.ExpectExec(regexp.QuoteMeta(sqlSweep)).WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mockPool.ExpectCommit().WillReturnError(commitErr)

		sweep := cypher.Statement{Clauses: []cypher.Clause{cypher.SweepOrphans{}}}
		err := kg.Run(ctx, []cypher.Statement{sweep, sweep})
		assert.ErrorIs(t, err, commitErr)
		assert.ErrorContains(t, err, "failed to commit transaction")
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("should report a failed begin", func(t *testing.T) {
		mockPool := newMockPool(t)
		kg := NewPostgresKG(mockPool, zap.NewNop())
		beginErr := errors.New("too many connections")

		mockPool.ExpectBegin().WillReturnError(beginErr)

		err := kg.Run(ctx, []cypher.Statement{{Clauses: []cypher.Clause{cypher.SweepOrphans{}}}})
		assert.ErrorIs(t, err, beginErr)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPostgresReload(t *testing.T) {
	ctx := context.Background()

	t.Run("should read paths below a node", func(t *testing.T) {
		mockPool := newMockPool(t)
		kg := NewPostgresKG(mockPool, zap.NewNop())

		cardinality := []byte(`{"cardinality":2,"digest":"abc"}`)
		class := []byte(`{"iri":"http://example.org/C"}`)
		mockPool.ExpectQuery(regexp.QuoteMeta(sqlNode)).
			WithArgs("n-1").
			WillReturnRows(mockPool.NewRows(nodeColumns).AddRow("n-1", []string{"ObjectMinCardinality", "ClassExpression"}, cardinality))
		mockPool.ExpectQuery(regexp.QuoteMeta(sqlOutEdges)).
			WithArgs("n-1").
			WillReturnRows(mockPool.NewRows(edgeColumns).AddRow(
				"e-1", "CLASS_EXPRESSION", []byte(`{}`),
				"n-1", []string{"ObjectMinCardinality", "ClassExpression"}, cardinality,
				"n-2", []string{"Class", "ClassExpression", "Entity"}, class))

		paths, err := kg.Reload(ctx, "n-1", 1)
		require.NoError(t, err)
		require.Len(t, paths, 2)
		n, ok := paths[0].Nodes[0].Properties.GetInt(schemas.PropCardinality)
		assert.True(t, ok)
		assert.Equal(t, int64(2), n)
		assert.Equal(t, schemas.EdgeClassExpression, paths[1].Edges[0].Label)
		assert.Equal(t, schemas.NodeID("n-2"), paths[1].Nodes[1].ID)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("should report missing nodes", func(t *testing.T) {
		mockPool := newMockPool(t)
		kg := NewPostgresKG(mockPool, zap.NewNop())
		mockPool.ExpectQuery(regexp.QuoteMeta(sqlNode)).WithArgs("missing").WillReturnError(pgx.ErrNoRows)

		_, err := kg.Reload(ctx, "missing", 1)
		assert.ErrorIs(t, err, schemas.ErrNotFound)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestDecodeProps(t *testing.T) {
	t.Parallel()

	props, err := decodeProps([]byte(`{"cardinality": 3, "weight": 1.5, "iri": "x", "flag": true}`))
	require.NoError(t, err)
	n, ok := props.GetInt("cardinality")
	assert.True(t, ok)
	assert.Equal(t, int64(3), n)
	w, _ := props.Get("weight")
	assert.Equal(t, 1.5, w)
	f, _ := props.Get("flag")
	assert.Equal(t, true, f)

	empty, err := decodeProps(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())

	_, err = decodeProps([]byte(`{"bad": [1]}`))
	assert.Error(t, err)
}
