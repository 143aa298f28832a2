package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheus_Contadores(t *testing.T) {
	p := NewPrometheus()

	p.Transfer("ok")
	p.Transfer("ok")
	p.Transfer("conflict")
	p.Compensation("transfer_target_restore", true)
	p.Compensation("transfer_target_restore", false)
	p.ImportItems("spreadsheet", 3, 1)

	assert.Equal(t, 2.0, testutil.ToFloat64(p.transfers.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.transfers.WithLabelValues("conflict")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.compensations.WithLabelValues("transfer_target_restore", "failed")))
	assert.Equal(t, 3.0, testutil.ToFloat64(p.importItems.WithLabelValues("spreadsheet", "imported")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.importItems.WithLabelValues("spreadsheet", "failed")))
}

func TestPrometheus_Handler(t *testing.T) {
	p := NewPrometheus()
	p.ObserveRequest("GET", "/api/products", 200, 15*time.Millisecond)

	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `noiddea_http_requests_total{method="GET",route="/api/products",status="200"} 1`)
}
