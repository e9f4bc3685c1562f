package billing

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotalsArithmetic(t *testing.T) {
	got := ComputeTotals([]Amounts{{Rs: "100", Cts: "50"}, {Rs: "20", Cts: "0"}}, "50")
	assert.Equal(t, Totals{Amount: "120.50", Balance: "70.50"}, got)
}

func TestComputeTotalsCentsAreHundredths(t *testing.T) {
	got := ComputeTotals([]Amounts{{Rs: "0", Cts: "5"}}, "")
	assert.Equal(t, "0.05", got.Amount)

	got = ComputeTotals([]Amounts{{Rs: "1", Cts: "150"}}, "0")
	assert.Equal(t, "2.50", got.Amount)
}

func TestComputeTotalsLenientInputs(t *testing.T) {
	got := ComputeTotals([]Amounts{{Rs: "", Cts: "abc"}, {Rs: " 10 ", Cts: ""}}, "x")
	assert.Equal(t, Totals{Amount: "10.00", Balance: "10.00"}, got)

	got = ComputeTotals(nil, "")
	assert.Equal(t, Totals{Amount: "0.00", Balance: "0.00"}, got)
}

func TestComputeTotalsNegativeBalance(t *testing.T) {
	got := ComputeTotals([]Amounts{{Rs: "100", Cts: "0"}}, "150.25")
	assert.Equal(t, "-50.25", got.Balance)
}

func TestComputeTotalsNoFloatDrift(t *testing.T) {
	items := make([]Amounts, 0, 10)
	for i := 0; i < 10; i++ {
		items = append(items, Amounts{Rs: "0", Cts: "10"})
	}
	assert.Equal(t, "1.00", ComputeTotals(items, "0").Amount)
}

func TestTotalsRequestAcceptsLooseJSON(t *testing.T) {
	var req TotalsRequest
	body := `{"items":[{"rs":100,"cts":"50"},{"rs":null},{"rs":"20","cts":{}}],"advance":50}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	got := ComputeTotals(req.Amounts(), string(req.Advance))
	assert.Equal(t, Totals{Amount: "120.50", Balance: "70.50"}, got)
}

func TestComputeTotalsIgnoresExponentForms(t *testing.T) {
	start := time.Now()
	got := ComputeTotals([]Amounts{{Rs: "1e10000000", Cts: "1E999999"}, {Rs: "10", Cts: "0"}}, "5e9999999")
	assert.Equal(t, Totals{Amount: "10.00", Balance: "10.00"}, got)
	assert.Less(t, time.Since(start), time.Second)

	got = ComputeTotals([]Amounts{{Rs: "-5", Cts: "+3"}, {Rs: "1234567890123456789", Cts: ".5"}}, "")
	assert.Equal(t, Totals{Amount: "0.00", Balance: "0.00"}, got)
}

func TestTotalsRequestIgnoresExponentJSONNumbers(t *testing.T) {
	var req TotalsRequest
	body := `{"items":[{"rs":1e10000000,"cts":"25"}],"advance":1e10000000}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	got := ComputeTotals(req.Amounts(), string(req.Advance))
	assert.Equal(t, Totals{Amount: "0.25", Balance: "0.25"}, got)
}
