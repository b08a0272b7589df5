package errutil_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/grievance/pkg/utils/errutil"
	"github.com/secmon-lab/grievance/pkg/utils/logging"
)

func TestHandle(t *testing.T) {
	var buf bytes.Buffer
	ctx := logging.With(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))

	err := goerr.New("boom", goerr.V("case_id", "c-1"))
	got := errutil.Handle(ctx, err, "failed to save case")

	gt.Value(t, got).Equal(err)
	gt.S(t, buf.String()).Contains("failed to save case")
	gt.S(t, buf.String()).Contains("c-1")
	gt.NoError(t, errutil.Handle(ctx, nil, "nothing"))
}

func TestHandleHTTP(t *testing.T) {
	w := httptest.NewRecorder()
	errutil.HandleHTTP(context.Background(), w, goerr.New("bad input"), http.StatusBadRequest)

	gt.Value(t, w.Code).Equal(http.StatusBadRequest)
	gt.S(t, w.Body.String()).Contains("bad input")
}
