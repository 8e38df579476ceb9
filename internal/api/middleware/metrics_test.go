package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-ResourceAllocation/pkg/metrics"
)

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.NewWithRegistry("resource-allocation", prometheus.NewRegistry())

	router := mux.NewRouter()
	router.Use(MetricsMiddleware(m, "resource-allocation"))
	router.HandleFunc("/api/v1/resources/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		if mux.Vars(r)["id"] == "404" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("{}"))
	}).Methods(http.MethodGet)

	for _, id := range []string{"1", "2", "404"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/resources/"+id+"/status", nil))
	}

	route := "/api/v1/resources/{id}/status"
	assert.Equal(t, 2.0, promtest.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, route, "200")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, route, "404")))
	assert.Equal(t, 1, promtest.CollectAndCount(m.HTTPRequestDuration))
}
