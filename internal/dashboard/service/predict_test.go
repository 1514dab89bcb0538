package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/quantumsec/phishguard/internal/dashboard/classifier"
	"github.com/quantumsec/phishguard/internal/dashboard/domain"
	"github.com/stretchr/testify/require"
)

func TestPredictPersistsNormalizedVerdict(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	owner := seedUser(t, st, domain.RoleUser)

	svc := &PredictionService{
		Store: st,
		Classifier: classifierFunc(func(ctx context.Context, url string) (classifier.Verdict, error) {
			require.Equal(t, "http://evil.example", url)
			return classifier.Verdict{
				Label:       "phishing",
				Confidence:  0.93,
				RiskFactors: []string{"ip-based host", "no https"},
			}, nil
		}),
	}

	p, err := svc.Predict(ctx, owner.ID, "  http://evil.example  ")
	require.NoError(t, err)
	require.Equal(t, domain.LabelPhishing, p.Prediction)
	require.InDelta(t, 0.93, p.Confidence, 1e-9)
	require.Equal(t, []string{"ip-based host", "no https"}, p.RiskFactors)
	require.Equal(t, "http://evil.example", p.InputURL)

	rows, err := st.Predictions().ListByUser(ctx, owner.ID, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, p.ID, rows[0].ID)
}

func TestPredictCoercesVerdict(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	owner := seedUser(t, st, domain.RoleUser)

	for _, tc := range []struct {
		name       string
		verdict    classifier.Verdict
		wantLabel  string
		wantConf   float64
		wantRisk   []string
	}{
		{"unknown label becomes legitimate", classifier.Verdict{Label: "suspicious", Confidence: 0.5}, domain.LabelLegitimate, 0.5, []string{}},
		{"empty label becomes legitimate", classifier.Verdict{Confidence: 0.5}, domain.LabelLegitimate, 0.5, []string{}},
		{"confidence above one clamps", classifier.Verdict{Label: "phishing", Confidence: 4.2}, domain.LabelPhishing, 1, []string{}},
		{"negative confidence clamps", classifier.Verdict{Label: "phishing", Confidence: -0.1}, domain.LabelPhishing, 0, []string{}},
		{"nil risk factors become empty", classifier.Verdict{Label: "phishing", Confidence: 0.7}, domain.LabelPhishing, 0.7, []string{}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			svc := &PredictionService{
				Store: st,
				Classifier: classifierFunc(func(ctx context.Context, url string) (classifier.Verdict, error) {
					return tc.verdict, nil
				}),
			}

			p, err := svc.Predict(ctx, owner.ID, "http://example.com")
			require.NoError(t, err)
			require.Equal(t, tc.wantLabel, p.Prediction)
			require.InDelta(t, tc.wantConf, p.Confidence, 1e-9)
			require.Equal(t, tc.wantRisk, p.RiskFactors)
		})
	}
}

func TestPredictRejectsEmptyURL(t *testing.T) {
	svc := &PredictionService{
		Store: newTestStore(t),
		Classifier: classifierFunc(func(ctx context.Context, url string) (classifier.Verdict, error) {
			t.Fatal("classifier must not be called")
			return classifier.Verdict{}, nil
		}),
	}

	for _, raw := range []string{"", "   ", "\t\n"} {
		_, err := svc.Predict(context.Background(), "user-id", raw)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Equal(t, "URL is required.", verr.Message)
	}
}

func TestPredictDoesNotPersistOnClassifierFailure(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	owner := seedUser(t, st, domain.RoleUser)

	upstream := &classifier.Error{StatusCode: 422, Message: "bad url"}
	svc := &PredictionService{
		Store: st,
		Classifier: classifierFunc(func(ctx context.Context, url string) (classifier.Verdict, error) {
			return classifier.Verdict{}, upstream
		}),
	}

	_, err := svc.Predict(ctx, owner.ID, "http://example.com")
	var got *classifier.Error
	require.ErrorAs(t, err, &got)
	require.Equal(t, upstream, got)

	rows, err := st.Predictions().ListByUser(ctx, owner.ID, 10)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestPredictPropagatesUnavailable(t *testing.T) {
	svc := &PredictionService{
		Store: newTestStore(t),
		Classifier: classifierFunc(func(ctx context.Context, url string) (classifier.Verdict, error) {
			return classifier.Verdict{}, fmt.Errorf("%w: dial tcp refused", classifier.ErrUnavailable)
		}),
	}

	_, err := svc.Predict(context.Background(), "user-id", "http://example.com")
	require.ErrorIs(t, err, classifier.ErrUnavailable)
}

func TestHistoryIsScopedAndCapped(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	alice := seedUser(t, st, domain.RoleUser)
	bob := seedUser(t, st, domain.RoleUser)

	svc := &PredictionService{
		Store: st,
		Classifier: classifierFunc(func(ctx context.Context, url string) (classifier.Verdict, error) {
			return classifier.Verdict{Label: "phishing", Confidence: 0.8}, nil
		}),
	}

	for i := 0; i < 3; i++ {
		_, err := svc.Predict(ctx, alice.ID, "http://a.example")
		require.NoError(t, err)
	}
	_, err := svc.Predict(ctx, bob.ID, "http://b.example")
	require.NoError(t, err)

	history, err := svc.History(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	for _, p := range history {
		require.Equal(t, alice.ID, p.UserID)
	}
}
