package connector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pranshuparmar/daxprobe/pkg/model"
)

func TestRunQuery_TwoRowsTwoColumns(t *testing.T) {
	c := newFixtureConnector(newEngine(t))

	res, err := c.RunQuery(context.Background(),
		"SELECT Item AS \"fact_data[Item]\", ItemVal AS \"fact_data[ItemVal]\" FROM fact_data WHERE ItemVal >= 10 ORDER BY Item")
	require.NoError(t, err)

	require.Len(t, res.Rows, 2)
	assert.Equal(t, []string{"fact_data[Item]", "fact_data[ItemVal]"}, res.Columns)
	for _, row := range res.Rows {
		require.Len(t, row, 2)
		assert.Equal(t, "fact_data[Item]", row[0].Name)
		assert.Equal(t, "fact_data[ItemVal]", row[1].Name)
	}
	assert.Equal(t, "A", res.Rows[0][0].Value)
	assert.Equal(t, "10", res.Rows[0][1].Value)
	assert.Equal(t, int64(10), res.Rows[0][1].Raw)
	assert.Equal(t, "B", res.Rows[1][0].Value)
	assert.Equal(t, "20", res.Rows[1][1].Value)
}

func TestRunQuery_NullBecomesEmptyString(t *testing.T) {
	c := newFixtureConnector(newEngine(t))

	res, err := c.RunQuery(context.Background(), "SELECT Postcode FROM fact_data WHERE Item = 'B'")
	require.NoError(t, err)
	require.Equal(t, 1, res.Len())
	assert.Equal(t, "", res.Rows[0][0].Value)
	assert.Nil(t, res.Rows[0][0].Raw)
}

func TestRunQuery_RowCountMatchesSource(t *testing.T) {
	c := newFixtureConnector(newEngine(t))

	res, err := c.RunQuery(context.Background(), "SELECT * FROM fact_data")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Len())
	for _, row := range res.Rows {
		require.Len(t, row, len(res.Columns))
		for i, cell := range row {
			assert.Equal(t, res.Columns[i], cell.Name)
		}
	}
}

func TestRunQuery_Rejected(t *testing.T) {
	e := newEngine(t)
	c := newFixtureConnector(e)

	_, err := c.RunQuery(context.Background(), "EVALUATE(VALUES('no_such_table'))")
	assert.ErrorIs(t, err, ErrQueryExecutionFailed)
	assert.NotErrorIs(t, err, ErrConnectionOpenFailed)
	e.requireClosed(t)
}

func TestRunQuery_EachCallOpensItsOwnConnection(t *testing.T) {
	e := newEngine(t)
	c := newFixtureConnector(e)

	for i := 0; i < 3; i++ {
		_, err := c.RunQuery(context.Background(), "SELECT 1")
		require.NoError(t, err)
	}
	assert.Len(t, e.opened(), 3)
	e.requireClosed(t)
}

func TestRunQueryScalar(t *testing.T) {
	c := newFixtureConnector(newEngine(t))

	v, err := c.RunQueryScalar(context.Background(), "SELECT COUNT(*) FROM fact_data")
	require.NoError(t, err)
	assert.Equal(t, "3", v)
}

func TestRunQueryScalar_Failures(t *testing.T) {
	ctx := context.Background()

	tests := map[string]string{
		"rejected":     "SELECT nope FROM nowhere",
		"no rows":      "SELECT Item FROM fact_data WHERE 1 = 0",
		"many columns": "SELECT Item, ItemVal FROM fact_data",
	}
	for name, q := range tests {
		t.Run(name, func(t *testing.T) {
			e := newEngine(t)
			v, err := newFixtureConnector(e).RunQueryScalar(ctx, q)
			assert.ErrorIs(t, err, ErrQueryExecutionFailed)
			assert.Empty(t, v)
			e.requireClosed(t)
		})
	}
}

func TestRunQueries(t *testing.T) {
	e := newEngine(t)
	c := newFixtureConnector(e)

	results, err := c.RunQueries(context.Background(),
		"SELECT Country FROM fact_data",
		"SELECT Country FROM dim_countries",
	)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 3, results[0].Len())
	assert.Equal(t, 2, results[1].Len())
	assert.Len(t, e.opened(), 2)

	countries, ok := results[1].Column("Country")
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"NO", "SE"}, countries)
}

func TestRunQueries_FirstErrorWins(t *testing.T) {
	e := newEngine(t)
	c := newFixtureConnector(e)

	results, err := c.RunQueries(context.Background(), "SELECT 1", "SELECT broken FROM")
	assert.ErrorIs(t, err, ErrQueryExecutionFailed)
	assert.Nil(t, results)
	e.requireClosed(t)
}

func TestQueryResultHelpers(t *testing.T) {
	c := newFixtureConnector(newEngine(t))

	res, err := c.RunQuery(context.Background(), "SELECT Item, Country FROM fact_data ORDER BY Item")
	require.NoError(t, err)

	v, ok := res.Rows[2].Get("Country")
	assert.True(t, ok)
	assert.Equal(t, "NO", v)

	_, ok = res.Rows[0].Get("Missing")
	assert.False(t, ok)

	_, ok = res.Column("Missing")
	assert.False(t, ok)

	items, _ := res.Column("Item")
	assert.Equal(t, []string{"A", "B", "C"}, items)
	assert.IsType(t, model.Row{}, res.Rows[0])
}
