package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveStoreOp_CountsOutcome(t *testing.T) {
	okBefore := testutil.ToFloat64(StoreOperationsTotal.WithLabelValues(StoreCassandra, "test_op", "ok"))
	errBefore := testutil.ToFloat64(StoreOperationsTotal.WithLabelValues(StoreCassandra, "test_op", "error"))

	ObserveStoreOp(StoreCassandra, "test_op", time.Now(), nil)
	ObserveStoreOp(StoreCassandra, "test_op", time.Now(), errors.New("boom"))
	ObserveStoreOp(StoreCassandra, "test_op", time.Now(), errors.New("boom"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(StoreOperationsTotal.WithLabelValues(StoreCassandra, "test_op", "ok")))
	assert.Equal(t, errBefore+2, testutil.ToFloat64(StoreOperationsTotal.WithLabelValues(StoreCassandra, "test_op", "error")))
}

func TestRecordFanOutFailure(t *testing.T) {
	before := testutil.ToFloat64(FanOutStepFailuresTotal.WithLabelValues("create_post", "posts_by_user"))
	RecordFanOutFailure("create_post", "posts_by_user")
	assert.Equal(t, before+1, testutil.ToFloat64(FanOutStepFailuresTotal.WithLabelValues("create_post", "posts_by_user")))
}

func TestCacheCounters(t *testing.T) {
	hits := testutil.ToFloat64(CacheRequestsTotal.WithLabelValues("hit"))
	misses := testutil.ToFloat64(CacheRequestsTotal.WithLabelValues("miss"))

	RecordCacheHit()
	RecordCacheMiss()
	RecordCacheMiss()

	assert.Equal(t, hits+1, testutil.ToFloat64(CacheRequestsTotal.WithLabelValues("hit")))
	assert.Equal(t, misses+2, testutil.ToFloat64(CacheRequestsTotal.WithLabelValues("miss")))
}
