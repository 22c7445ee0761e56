package physio_test

import (
	"testing"

	"github.com/2beens/physiometrics/internal/physio"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWeek() physio.Week {
	return physio.NewWeek([7][2]int{
		{30, 5}, {0, 5}, {45, 7}, {0, 5}, {60, 8}, {0, 5}, {20, 3},
	})
}

func TestWeeklyLoad(t *testing.T) {
	assert.Equal(t, 1005, physio.WeeklyLoad(testWeek()))
	assert.Equal(t, 0, physio.WeeklyLoad(physio.Week{}))

	week := physio.NewWeek([7][2]int{
		{0, 10}, {-30, 8}, {10, 0}, {10, 15}, {}, {}, {},
	})
	// zero and negative minutes contribute nothing, RPE is clamped into 1-10
	assert.Equal(t, 10*1+10*10, physio.WeeklyLoad(week))
}

func TestNewWeek_DaysInOrder(t *testing.T) {
	week := testWeek()
	for i, e := range week {
		assert.Equal(t, physio.Weekday(i), e.Day)
	}
	assert.Equal(t, "Mon", week[0].Day.String())
	assert.Equal(t, "Sun", week[6].Day.String())
}

func TestMonthlyAverage(t *testing.T) {
	assert.False(t, physio.MonthlyAverage(0, 0, 0, 0).IsSet())

	avg := physio.MonthlyAverage(100, 100, 100, 100)
	require.True(t, avg.IsSet())
	assert.Equal(t, 100.0, avg.Value())

	avg = physio.MonthlyAverage(900, 950, 1000, 1005)
	require.True(t, avg.IsSet())
	assert.Equal(t, 963.75, avg.Value())
}

func TestACWR(t *testing.T) {
	for _, current := range []int{0, 1, 500, 10000} {
		assert.False(t, physio.ACWR(current, physio.None()).IsSet())
		assert.False(t, physio.ACWR(current, physio.Some(0)).IsSet())
	}

	acwr := physio.ACWR(1005, physio.MonthlyAverage(900, 950, 1000, 1005))
	require.True(t, acwr.IsSet())
	assert.InDelta(t, 1.043, acwr.Value(), 0.001)
	assert.Equal(t, physio.ZoneSweetSpot, physio.ClassifyACWR(acwr))
}

func TestTrendDelta(t *testing.T) {
	for _, tc := range [][2]int{{0, 0}, {1000, 1005}, {5000, 0}} {
		assert.False(t, physio.TrendDelta(tc[0], tc[1], 0, 0).IsSet())
	}

	delta := physio.TrendDelta(1000, 1005, 900, 950)
	require.True(t, delta.IsSet())
	// (1002.5 - 925) / 925
	assert.InDelta(t, 0.0837837, delta.Value(), 1e-6)

	delta = physio.TrendDelta(0, 0, 500, 500)
	require.True(t, delta.IsSet())
	assert.Equal(t, -1.0, delta.Value())
}

func TestLoads_NegativePastWeeksCountAsZero(t *testing.T) {
	avg := physio.MonthlyAverage(-300, 0, 0, 400)
	require.True(t, avg.IsSet())
	assert.Equal(t, 100.0, avg.Value())

	acwr := physio.ACWR(400, avg)
	require.True(t, acwr.IsSet())
	assert.Equal(t, 4.0, acwr.Value())

	assert.False(t, physio.MonthlyAverage(-100, -200, -300, 0).IsSet())
	assert.False(t, physio.TrendDelta(100, 100, -500, 0).IsSet())

	delta := physio.TrendDelta(-100, 300, 100, 200)
	require.True(t, delta.IsSet())
	// (150 - 150) / 150
	assert.Equal(t, 0.0, delta.Value())
}
