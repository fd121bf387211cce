package webhooks

import (
	"context"
	"io"
	"net/http"

	"github.com/neevdiamonds/storefront-backend/api/responses"
	razorpaywebhook "github.com/neevdiamonds/storefront-backend/internal/webhooks/razorpay"
	"github.com/neevdiamonds/storefront-backend/pkg/config"
	pkgerrors "github.com/neevdiamonds/storefront-backend/pkg/errors"
	"github.com/neevdiamonds/storefront-backend/pkg/gateway/razorpay"
	"github.com/neevdiamonds/storefront-backend/pkg/logger"
	"github.com/neevdiamonds/storefront-backend/pkg/metrics"
)

const signatureHeader = "X-Razorpay-Signature"

type razorpayWebhookService interface {
	Process(ctx context.Context, body []byte) (razorpaywebhook.Outcome, error)
}

// RazorpayWebhook receives gateway payment events. The signature over the
// raw body is checked before anything else; verified deliveries always get
// a bare {"ok":true}, whatever became of the event.
func RazorpayWebhook(svc razorpayWebhookService, cfg config.GatewayConfig, m *metrics.HTTPMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook service unavailable"))
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request body"))
			return
		}

		bypass := cfg.AllowTestBypass && r.URL.Query().Get("test") == "1"
		if !bypass {
			signature := r.Header.Get(signatureHeader)
			if !razorpay.VerifySignature(body, signature, cfg.WebhookSecret) {
				m.IncWebhook("rejected")
				logg.Warn(ctx, "webhook signature verification failed")
				responses.WriteError(ctx, logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "invalid webhook signature"))
				return
			}
		}

		outcome, err := svc.Process(ctx, body)
		if err != nil {
			m.IncWebhook("error")
			responses.WriteError(ctx, logg, w, err)
			return
		}

		m.IncWebhook(string(outcome))
		responses.WriteRaw(w, http.StatusOK, map[string]bool{"ok": true})
	}
}
