// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordBackendRequest(t *testing.T) {
	before := testutil.ToFloat64(BackendRequestsTotal.WithLabelValues("/api/meals", "ok"))
	RecordBackendRequest("/api/meals", "ok", 20*time.Millisecond)
	after := testutil.ToFloat64(BackendRequestsTotal.WithLabelValues("/api/meals", "ok"))

	if after-before != 1 {
		t.Errorf("backend_requests_total delta = %v, want 1", after-before)
	}
}

func TestRecordProxyRequest(t *testing.T) {
	before := testutil.ToFloat64(ProxyRequestsTotal.WithLabelValues("auth", "POST", "302"))
	RecordProxyRequest("auth", "POST", 302)
	after := testutil.ToFloat64(ProxyRequestsTotal.WithLabelValues("auth", "POST", "302"))

	if after-before != 1 {
		t.Errorf("proxy_requests_total delta = %v, want 1", after-before)
	}
}

func TestRecordCartMutation(t *testing.T) {
	tests := []struct {
		success bool
		result  string
	}{
		{true, "success"},
		{false, "rolled_back"},
	}
	for _, tt := range tests {
		c := CartMutations.WithLabelValues("add", tt.result)
		before := testutil.ToFloat64(c)
		RecordCartMutation("add", tt.success)
		if got := testutil.ToFloat64(c) - before; got != 1 {
			t.Errorf("cart_mutations_total{result=%q} delta = %v, want 1", tt.result, got)
		}
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("active requests = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active requests = %v, want %v", got, before)
	}
}
