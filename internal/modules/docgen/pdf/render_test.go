package pdf

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/atmohq/atmo-backend/internal/modules/docgen"
)

func sampleDocument(actions int) *docgen.StrategicDocument {
	doc := &docgen.StrategicDocument{
		Title:            "Phoenix Roadmap",
		ExecutiveSummary: "Relaunch Phoenix to 500 teams → profitable by Q3.\n\nSecond paragraph — with a dash.",
		StrategicAnalysis: docgen.StrategicAnalysis{
			MarketPositioning:     "Mid-market teams.",
			CompetitiveAdvantages: "Fast setup.",
			RiskAssessment:        "Churn.",
		},
		KeyPerformanceIndicators: []docgen.KPI{{Metric: "Teams", Baseline: "120", Target: "500", Cadence: "monthly"}},
		ResourceRequirements:     []docgen.ResourceRequirement{{Category: "Engineering", Details: "2 engineers", Cost: "24,000 EUR"}},
		ImplementationTimeline:   []docgen.TimelinePhase{{Milestone: "Beta", StartDate: "2026-11-01", EndDate: "2026-11-30"}},
		Methodologies:            []string{"OKRs"},
		Notes:                    "Café notes with accents.",
	}
	for i := 0; i < actions; i++ {
		doc.DetailedActionPlan = append(doc.DetailedActionPlan, docgen.ActionItem{
			Step: "Ship increment", Owner: "Ada", Deadline: "2026-12-01",
			Resources: strings.Repeat("Two engineers and a designer. ", 6), SuccessMetric: "40% activation",
		})
	}
	return doc
}

func TestRenderPDFProducesBase64PDF(t *testing.T) {
	out, err := RenderPDF(sampleDocument(4), "", docgen.TypeRoadmap, "Quarterly plan", Metadata{
		PreparedFor: "Ada Lovelace",
		Projects:    []string{"Project Phoenix"},
		GeneratedAt: time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(out)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(raw, []byte("%PDF-")))
}

func TestRenderPaginatesLongDocuments(t *testing.T) {
	short, err := Render(sampleDocument(1), "Short", docgen.TypeStrategy, "", Metadata{})
	require.NoError(t, err)
	long, err := Render(sampleDocument(40), "Long", docgen.TypeStrategy, "", Metadata{})
	require.NoError(t, err)

	require.GreaterOrEqual(t, pageCount(short), 1)
	require.Greater(t, pageCount(long), pageCount(short))
	require.Greater(t, pageCount(long), 2)
}

var pageObject = regexp.MustCompile(`/Type /Page[^s]`)

func pageCount(raw []byte) int { return len(pageObject.FindAll(raw, -1)) }

func TestRenderIsDeterministicForFixedMetadata(t *testing.T) {
	meta := Metadata{PreparedFor: "Ada", GeneratedAt: time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)}
	a, err := Render(sampleDocument(3), "Plan", docgen.TypeProjectPlan, "", meta)
	require.NoError(t, err)
	b, err := Render(sampleDocument(3), "Plan", docgen.TypeProjectPlan, "", meta)
	require.NoError(t, err)
	require.True(t, bytes.Equal(a, b))
}

func TestRenderRejectsNilDocument(t *testing.T) {
	_, err := Render(nil, "x", docgen.TypeGuide, "", Metadata{})
	require.Error(t, err)
}

func TestHeaderBandIsPNG(t *testing.T) {
	raw, err := headerBand("Business Plan")
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Equal(t, bandWidthPx, img.Bounds().Dx())
	require.Equal(t, bandHeightPx, img.Bounds().Dy())
}

func TestTimelineAndResourcesRenderAsHeadedEntries(t *testing.T) {
	doc := sampleDocument(1)
	doc.ImplementationTimeline = append(doc.ImplementationTimeline,
		docgen.TimelinePhase{Milestone: "Launch", StartDate: "2026-12-01", EndDate: "2026-12-15", Dependencies: "Beta"})

	tl := timelineEntries(doc)
	require.Len(t, tl, 2)
	require.Equal(t, "Launch", tl[1].heading)
	require.Equal(t, [][2]string{{"Start", "2026-12-01"}, {"End", "2026-12-15"}, {"Depends on", "Beta"}}, tl[1].fields)

	res := resourceEntries(doc)
	require.Len(t, res, 1)
	require.Equal(t, "Engineering", res[0].heading)
	require.Equal(t, [][2]string{{"Details", "2 engineers"}, {"Cost", "24,000 EUR"}, {"Owners", ""}}, res[0].fields)

	require.Equal(t, "1. Ship increment", actionEntries(doc)[0].heading)
}
