package dataset

import (
	"math"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "iso", raw: "2020-03-21", want: "2020-03-21"},
		{name: "slash ymd", raw: "2020/03/21", want: "2020-03-21"},
		{name: "us short", raw: "3/21/2020", want: "2020-03-21"},
		{name: "us padded", raw: "03/21/2020", want: "2020-03-21"},
		{name: "words", raw: "March 21 2020", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDate(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Format(ISODate))
		})
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    float64
		wantErr bool
	}{
		{name: "24h", raw: "22:30", want: 1350},
		{name: "24h with seconds", raw: "09:15:30", want: 555.5},
		{name: "midnight", raw: "00:00", want: 0},
		{name: "am", raw: "8:15 AM", want: 495},
		{name: "pm", raw: "11:45 PM", want: 1425},
		{name: "not a clock", raw: "late evening", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseClock(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestColumnConventions(t *testing.T) {
	assert.True(t, IsDateColumn("ref_date"))
	assert.True(t, IsDateColumn("enroll_date"))
	assert.True(t, IsDateColumn("date"))
	assert.False(t, IsDateColumn("update"))
	assert.False(t, IsDateColumn("stress"))

	assert.True(t, IsClockColumn("survey_time"))
	assert.True(t, IsClockColumn("bed_time"))
	assert.False(t, IsClockColumn("timeline"))
	assert.False(t, IsClockColumn("day"))
}

func TestReverseScales(t *testing.T) {
	df := dataframe.New(
		series.New([]string{"S001", "S001", "S002"}, series.String, ColSubjectID),
		series.New([]int{2, 5, 7}, series.Int, "stress"),
		series.New([]string{"10", "NaN", "35"}, series.Float, "worry"),
		series.New([]float64{7.5, 6, 8}, series.Float, "sleep_hours"),
	)
	require.NoError(t, df.Err)

	out, err := reverseScales(df, "daily.csv")
	require.NoError(t, err)

	// stress on [1,7]: v' = 8 - v
	assert.Equal(t, []float64{6, 3, 1}, out.Col("stress").Float())

	// worry on [5,35]: v' = 40 - v, missing stays missing
	worry := out.Col("worry").Float()
	assert.Equal(t, 30.0, worry[0])
	assert.True(t, math.IsNaN(worry[1]))
	assert.Equal(t, 5.0, worry[2])

	// unlisted columns untouched
	assert.Equal(t, []float64{7.5, 6, 8}, out.Col("sleep_hours").Float())
}

func TestReverseScales_RoundTripProperty(t *testing.T) {
	raw := []int{1, 2, 3, 4, 5, 6, 7}
	df := dataframe.New(series.New(raw, series.Int, "stress"))

	out, err := reverseScales(df, "daily.csv")
	require.NoError(t, err)

	got := out.Col("stress").Float()
	for i, v := range raw {
		assert.Equal(t, float64(7+1-v), got[i], "reversal must satisfy v' = max + min - v")
	}

	// Applying the reversal twice restores the raw values
	twice, err := reverseScales(out, "daily.csv")
	require.NoError(t, err)
	for i, v := range raw {
		assert.Equal(t, float64(v), twice.Col("stress").Float()[i])
	}
}

func TestNormalizeDateColumns(t *testing.T) {
	t.Run("mixed layouts normalized to ISO", func(t *testing.T) {
		df := dataframe.New(
			series.New([]string{"2020-03-21", "3/22/2020", "NaN"}, series.String, "ref_date"),
			series.New([]string{"left alone", "values", "here"}, series.String, "notes"),
		)

		out, err := normalizeDateColumns(df, "daily.csv")
		require.NoError(t, err)

		rec := out.Col("ref_date").Records()
		assert.Equal(t, "2020-03-21", rec[0])
		assert.Equal(t, "2020-03-22", rec[1])
		assert.True(t, out.Col("ref_date").Elem(2).IsNA())

		assert.Equal(t, []string{"left alone", "values", "here"}, out.Col("notes").Records())
	})

	t.Run("unparseable date names file and column", func(t *testing.T) {
		df := dataframe.New(
			series.New([]string{"2020-03-21", "soon"}, series.String, "ref_date"),
		)

		_, err := normalizeDateColumns(df, "COVID19_daily_cleaned_2021-07-22.csv")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "COVID19_daily_cleaned_2021-07-22.csv")
		assert.Contains(t, err.Error(), "ref_date")
		assert.Contains(t, err.Error(), "soon")
	})
}

func TestNormalizeClockColumns(t *testing.T) {
	t.Run("clock strings become minutes", func(t *testing.T) {
		df := dataframe.New(
			series.New([]string{"22:30", "NaN", "8:15 AM"}, series.String, "survey_time"),
		)

		out, err := normalizeClockColumns(df, "daily.csv")
		require.NoError(t, err)
		require.Equal(t, series.Float, out.Col("survey_time").Type())

		got := out.Col("survey_time").Float()
		assert.Equal(t, 1350.0, got[0])
		assert.True(t, math.IsNaN(got[1]))
		assert.Equal(t, 495.0, got[2])
	})

	t.Run("unparseable clock names file and column", func(t *testing.T) {
		df := dataframe.New(
			series.New([]string{"around midnight"}, series.String, "survey_time"),
		)

		_, err := normalizeClockColumns(df, "daily.csv")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "survey_time")
		assert.Contains(t, err.Error(), "around midnight")
	})
}

func TestHasColumn(t *testing.T) {
	df := dataframe.New(series.New([]int{1}, series.Int, "day"))

	assert.True(t, HasColumn(df, "day"))
	assert.False(t, HasColumn(df, "night"))
}
