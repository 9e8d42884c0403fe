package holiday

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolidaysForYear(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/PublicHolidays/2025/BR", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"date":"2025-01-01","localName":"Confraternização Universal","name":"New Year's Day","global":true},
			{"date":"2025-04-21","localName":"Tiradentes","name":"Tiradentes","global":true},
			{"date":"bogus","localName":"broken","name":"broken","global":false}
		]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "BR", time.Second)
	dates, err := c.HolidaysForYear(context.Background(), 2025)
	require.NoError(t, err)

	// Unparseable dates are skipped, not fatal.
	require.Len(t, dates, 2)
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), dates[0])
	assert.Equal(t, time.Date(2025, time.April, 21, 0, 0, 0, 0, time.UTC), dates[1])
}

func TestHolidaysForYear_NoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "ZZ", time.Second)
	dates, err := c.HolidaysForYear(context.Background(), 2025)
	require.NoError(t, err)
	assert.Empty(t, dates)
}

func TestHolidaysForYear_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "BR", time.Second)
	_, err := c.HolidaysForYear(context.Background(), 2025)
	assert.Error(t, err)
}
