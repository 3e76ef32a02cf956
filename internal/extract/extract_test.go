package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

const planListHTML = `
<html><body>
<ul>
  <li class="card">
    <h3>Alpha Robot</h3>
    <span>Hit Rate: 92.5%</span>
    <span>Trade: 1,204</span>
    <span>Plan: Big trend | streak 3</span>
  </li>
  <li class="card">
    <strong>Beta</strong>
    <span>hit rate 87%</span>
    <span>trades 56</span>
    <span>Plan - small dip</span>
  </li>
</ul>
</body></html>`

func TestRecordsBasicFields(t *testing.T) {
	records := Records(parseDoc(t, planListHTML))
	// ul/body/html 不在容器选择器内，只有两个 li 计入。
	require.Len(t, records, 2)

	var alpha, beta *Candidate
	for i := range records {
		switch records[i].Name {
		case "Alpha Robot":
			alpha = &records[i]
		case "Beta":
			beta = &records[i]
		}
	}
	require.NotNil(t, alpha)
	require.NotNil(t, beta)

	require.NotNil(t, alpha.HitRate)
	assert.InDelta(t, 92.5, *alpha.HitRate, 1e-9)
	require.NotNil(t, alpha.Trade)
	assert.InDelta(t, 1204, *alpha.Trade, 1e-9)
	assert.Equal(t, "Big trend", alpha.Plan)

	require.NotNil(t, beta.HitRate)
	assert.InDelta(t, 87, *beta.HitRate, 1e-9)
	require.NotNil(t, beta.Trade)
	assert.InDelta(t, 56, *beta.Trade, 1e-9)
	assert.Equal(t, "small dip", beta.Plan)
}

func TestRecordsDeduplicatesContainers(t *testing.T) {
	html := `<html><body><div class="item">
	  <b>Gamma</b>
	  <p>Hit Rate 80%</p>
	  <p>hit rate again</p>
	</div></body></html>`
	records := Records(parseDoc(t, html))

	names := 0
	for _, r := range records {
		if r.Name == "Gamma" {
			names++
		}
	}
	assert.Equal(t, 1, names, "one container must yield one record")
}

func TestRecordsMissingFieldsAreNil(t *testing.T) {
	html := `<html><body><li class="row">
	  <span>Hit Rate pending</span>
	</li></body></html>`
	records := Records(parseDoc(t, html))
	require.NotEmpty(t, records)

	r := records[0]
	assert.Nil(t, r.HitRate, "no percentage token means nil hit rate")
	assert.Nil(t, r.Trade)
	assert.Empty(t, r.Plan)
	assert.NotEmpty(t, r.RawText)
}

func TestRecordsMalformedNumbersIgnored(t *testing.T) {
	html := `<html><body><li class="card">
	  <h4>Delta</h4>
	  <span>Hit Rate: ??%</span>
	  <span>Trade: soon</span>
	</li></body></html>`
	records := Records(parseDoc(t, html))
	require.NotEmpty(t, records)
	assert.Nil(t, records[0].HitRate)
	assert.Nil(t, records[0].Trade)
}

func TestRecordsNameFallsBackToRawText(t *testing.T) {
	html := `<html><body><li class="card">
	  <span>Hit Rate: 75%</span>
	</li></body></html>`
	records := Records(parseDoc(t, html))
	require.NotEmpty(t, records)
	assert.NotEmpty(t, records[0].Name, "fallback name comes from raw text")
}

func TestRecordsNoContainerMatch(t *testing.T) {
	// hit rate 文本只出现在无容器祖先的裸元素上。
	html := `<html><span>hit rate 50%</span></html>`
	records := Records(parseDoc(t, html))
	assert.Empty(t, records)
}

func TestRecordsEmptyDocument(t *testing.T) {
	assert.Empty(t, Records(parseDoc(t, `<html><body></body></html>`)))
	assert.Empty(t, Records(nil))
}

func TestPlanStopsAtPipe(t *testing.T) {
	html := `<html><body><li class="card">
	  <h5>Epsilon</h5>
	  <span>Hit Rate: 60%</span>
	  <span>Plan: 6-9 range | extra note</span>
	</li></body></html>`
	records := Records(parseDoc(t, html))
	require.NotEmpty(t, records)
	assert.Equal(t, "6-9 range", records[0].Plan)
}

func TestRawTextFallbackForFields(t *testing.T) {
	// 字段值不在独立元素里，只能从容器整体文本兜底。
	html := `<html><body><li class="card">Robot X hit rate 66% with trade 42 plan: Small steady</li></body></html>`
	records := Records(parseDoc(t, html))
	require.NotEmpty(t, records)

	r := records[0]
	require.NotNil(t, r.HitRate)
	assert.InDelta(t, 66, *r.HitRate, 1e-9)
	require.NotNil(t, r.Trade)
	assert.InDelta(t, 42, *r.Trade, 1e-9)
	assert.Equal(t, "Small steady", r.Plan)
}
