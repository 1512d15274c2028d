package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCloud(t *testing.T) {
	c := NewCollector("wordcloud")

	c.RecordCloud(OutcomeOK, 12)
	c.RecordCloud(OutcomeEmpty, 0)
	c.RecordCloud(OutcomeOK, 3)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.CloudsGenerated.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.CloudsGenerated.WithLabelValues(OutcomeEmpty)))
}

func TestRecordExport(t *testing.T) {
	c := NewCollector("wordcloud")

	c.RecordExport("svg", nil)
	c.RecordExport("png", errors.New("encode"))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.Exports.WithLabelValues("svg", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Exports.WithLabelValues("png", "error")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := NewCollector("wordcloud")
	c.RecordHTTPRequest(http.MethodPost, "/clouds", http.StatusOK, 20*time.Millisecond)
	c.Sessions.Set(3)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `wordcloud_http_requests_total{method="POST",route="/clouds",status="200"} 1`)
	assert.Contains(t, body, "wordcloud_sessions_active 3")
}

func TestCollectorsAreIndependent(t *testing.T) {
	a := NewCollector("wordcloud")
	b := NewCollector("wordcloud")
	a.WordsSkipped.Add(4)

	assert.Equal(t, 4.0, testutil.ToFloat64(a.WordsSkipped))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.WordsSkipped))
}
