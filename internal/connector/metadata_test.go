package connector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pranshuparmar/daxprobe/pkg/model"
)

func TestGetMeasures(t *testing.T) {
	e := newEngine(t)
	c := newFixtureConnector(e)

	catalog, err := c.GetMeasures(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Measures", "dim_countries", "fact_data"}, catalog.Containers())
	assert.Empty(t, catalog["dim_countries"])
	assert.Equal(t, []model.MeasureDefinition{
		{Container: "fact_data", Name: "NumItems", Expression: "(SELECT COUNT(*) FROM fact_data)"},
		{Container: "fact_data", Name: "SumItems", Expression: "(SELECT SUM(ItemVal) FROM fact_data)"},
	}, catalog["fact_data"])
	require.Len(t, catalog["Measures"], 1)
	assert.Equal(t, "NumItems", catalog["Measures"][0].Name)

	// the orphan row has no container and is not counted
	assert.Equal(t, 3, catalog.Count())

	// both catalog queries share one connection
	assert.Len(t, e.opened(), 1)
}

func TestGetMeasures_BadCatalogQuery(t *testing.T) {
	e := newEngine(t)
	c := NewWithPort("DataSource=localhost", 50484,
		WithDriver("sqlite"),
		WithOpener(e.open),
		WithCatalog(Catalog{TablesQuery: "SELECT id FROM tmschema_tables", MeasuresQuery: fixtureCatalog.MeasuresQuery}),
		WithLogger(quietLogger()),
	)
	_, err := c.GetMeasures(context.Background())
	assert.ErrorIs(t, err, ErrQueryExecutionFailed)
	e.requireClosed(t)
}

func TestEvaluateMeasure(t *testing.T) {
	c := newFixtureConnector(newEngine(t))
	ctx := context.Background()

	catalog, err := c.GetMeasures(ctx)
	require.NoError(t, err)

	sum := catalog["fact_data"][1]
	v, err := c.EvaluateMeasure(ctx, sum)
	require.NoError(t, err)
	assert.Equal(t, "35", v)

	m, ok := catalog.Find("NumItems")
	require.True(t, ok)
	// "Measures" sorts before "fact_data"
	assert.Equal(t, "Measures", m.Container)
	v, err = c.EvaluateMeasure(ctx, m)
	require.NoError(t, err)
	assert.Equal(t, "2", v)
}

func TestEvaluateMeasure_Rejected(t *testing.T) {
	e := newEngine(t)
	c := newFixtureConnector(e)

	_, err := c.EvaluateMeasure(context.Background(), model.MeasureDefinition{Name: "Broken", Expression: "SUM("})
	require.ErrorIs(t, err, ErrQueryExecutionFailed)
	assert.Contains(t, err.Error(), "Broken")
	e.requireClosed(t)
}

func TestWithCatalog_FillsBlanks(t *testing.T) {
	got := Catalog{TablesQuery: "x"}.withDefaults()
	assert.Equal(t, "x", got.TablesQuery)
	assert.Equal(t, DefaultCatalog.MeasuresQuery, got.MeasuresQuery)
	assert.Equal(t, DefaultCatalog.MeasureTemplate, got.MeasureTemplate)
}
