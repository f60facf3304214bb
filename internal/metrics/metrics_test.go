package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()
	m.ItemDone(true, 10*time.Millisecond)
	m.ItemDone(true, time.Millisecond)
	m.ItemDone(false, time.Millisecond)
	m.Converted("dkpro-pos")
	m.Converted("dkpro-pos")
	m.Converted("default")
	m.ConvertFailed("collapse[X]")
	m.Uploaded(5, 2)
	m.Uploaded(1, 0)
	m.BindFailed("collapse[X]")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.itemsTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.itemsTotal.WithLabelValues("failed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.recordsConverted.WithLabelValues("dkpro-pos")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.convertFailures.WithLabelValues("collapse[X]")))
	assert.Equal(t, 6.0, testutil.ToFloat64(m.recordsUploaded))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.recordsSkipped))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bindFailures.WithLabelValues("collapse[X]")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.itemDuration))
}

func TestHandler(t *testing.T) {
	m := New()
	m.Uploaded(3, 0)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "annbridge_records_uploaded_total 3"))
}
