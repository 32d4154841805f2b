package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func txBody(kind string, amount float64, category, date string) map[string]any {
	return map[string]any{
		"name":     category + " " + date,
		"category": category,
		"amount":   amount,
		"type":     kind,
		"date":     date,
	}
}

func (ts *testServer) createTx(owner string, body map[string]any) string {
	ts.t.Helper()
	w := ts.do("POST", "/v1/transactions", owner, body)
	require.Equal(ts.t, 201, w.Code, w.Body.String())
	id, _ := decode(ts.t, w)["id"].(string)
	require.NotEmpty(ts.t, id)
	return id
}

func TestCreateTransaction(t *testing.T) {
	ts := newTestServer(t, testRates, nil)

	body := txBody("expense", 400, "Infrastructure", "2024-01-20")
	body["vendor"] = "AWS"
	body["payment_method"] = "card"
	body["tags"] = []string{" cloud ", "cloud", "", "prod"}
	body["owner_id"] = "mallory"

	w := ts.do("POST", "/v1/transactions", "alice", body)
	require.Equal(t, 201, w.Code, w.Body.String())
	got := decode(t, w)
	assert.NotEmpty(t, got["id"])
	assert.Equal(t, "alice", got["owner_id"])
	assert.Equal(t, "completed", got["status"])
	assert.Equal(t, "card", got["payment_method"])
	assert.Equal(t, []any{"cloud", "prod"}, got["tags"])

	w = ts.do("GET", "/v1/transactions/"+got["id"].(string), "alice", nil)
	require.Equal(t, 200, w.Code)
	assert.Equal(t, "AWS", decode(t, w)["vendor"])
}

func TestCreateTransactionValidation(t *testing.T) {
	ts := newTestServer(t, testRates, nil)

	missing := txBody("expense", 10, "Travel", "2024-01-01")
	delete(missing, "category")

	cases := []struct {
		name string
		body any
		code int
	}{
		{"missing category", missing, 422},
		{"zero amount", txBody("expense", 0, "Travel", "2024-01-01"), 422},
		{"negative amount", txBody("expense", -5, "Travel", "2024-01-01"), 422},
		{"oversized amount", txBody("income", 1e20, "Revenue", "2024-01-01"), 422},
		{"bad type", txBody("transfer", 5, "Travel", "2024-01-01"), 422},
		{"bad date shape", txBody("expense", 5, "Travel", "01/02/2024"), 422},
		{"impossible date", txBody("expense", 5, "Travel", "2024-13-45"), 422},
		{"blank name", map[string]any{"name": "  ", "category": "X", "amount": 1, "type": "income", "date": "2024-01-01"}, 422},
		{"malformed", `{"name":`, 400},
		{"empty", nil, 400},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ts.do("POST", "/v1/transactions", "alice", c.body)
			assert.Equal(t, c.code, w.Code, w.Body.String())
		})
	}

	w := ts.do("GET", "/v1/transactions", "alice", nil)
	assert.Equal(t, float64(0), decode(t, w)["count"], "nothing invalid was stored")
}

func TestTransactionOwnership(t *testing.T) {
	ts := newTestServer(t, testRates, nil)
	aliceID := ts.createTx("alice", txBody("income", 100, "Revenue", "2024-01-01"))
	bobID := ts.createTx("bob", txBody("expense", 50, "Travel", "2024-01-02"))

	w := ts.do("GET", "/v1/transactions", "alice", nil)
	require.Equal(t, 200, w.Code)
	list := decode(t, w)["transactions"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, aliceID, list[0].(map[string]any)["id"])

	assert.Equal(t, 404, ts.do("GET", "/v1/transactions/"+bobID, "alice", nil).Code)
	assert.Equal(t, 404, ts.do("PUT", "/v1/transactions/"+bobID, "alice", txBody("expense", 1, "X", "2024-01-01")).Code)
	assert.Equal(t, 404, ts.do("DELETE", "/v1/transactions/"+bobID, "alice", nil).Code)

	w = ts.do("GET", "/v1/transactions/"+bobID, "bob", nil)
	require.Equal(t, 200, w.Code)
	assert.Equal(t, 50.0, decode(t, w)["amount"])
}

func TestUpdateAndDeleteTransaction(t *testing.T) {
	ts := newTestServer(t, testRates, nil)
	id := ts.createTx("alice", txBody("expense", 50, "Travel", "2024-01-02"))

	upd := txBody("expense", 75, "Operations", "2024-01-03")
	upd["status"] = "Pending"
	w := ts.do("PUT", "/v1/transactions/"+id, "alice", upd)
	require.Equal(t, 200, w.Code, w.Body.String())
	got := decode(t, w)
	assert.Equal(t, id, got["id"])
	assert.Equal(t, "Operations", got["category"])
	assert.Equal(t, 75.0, got["amount"])
	assert.Equal(t, "pending", got["status"])

	w = ts.do("DELETE", "/v1/transactions/"+id, "alice", nil)
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, 404, ts.do("GET", "/v1/transactions/"+id, "alice", nil).Code)
	assert.Equal(t, 404, ts.do("DELETE", "/v1/transactions/"+id, "alice", nil).Code)
}

func TestListTransactionsQuery(t *testing.T) {
	ts := newTestServer(t, testRates, nil)
	ts.createTx("alice", txBody("income", 1000, "Revenue", "2024-01-15"))
	ts.createTx("alice", txBody("expense", 400, "Infrastructure", "2024-01-20"))
	ts.createTx("alice", txBody("expense", 100, "infrastructure", "2024-02-01"))

	count := func(q string) float64 {
		w := ts.do("GET", "/v1/transactions"+q, "alice", nil)
		require.Equal(t, 200, w.Code, w.Body.String())
		return decode(t, w)["count"].(float64)
	}
	assert.Equal(t, 3.0, count(""))
	assert.Equal(t, 2.0, count("?type=expense"))
	assert.Equal(t, 3.0, count("?type=all"))
	assert.Equal(t, 2.0, count("?category=Infrastructure"))
	assert.Equal(t, 2.0, count("?start_date=2024-01-16"))
	assert.Equal(t, 1.0, count("?start_date=2024-01-16&end_date=2024-01-31"))
	assert.Equal(t, 1.0, count("?limit=1"))

	w := ts.do("GET", "/v1/transactions", "alice", nil)
	list := decode(t, w)["transactions"].([]any)
	assert.Equal(t, "2024-02-01", list[0].(map[string]any)["date"], "newest first")

	for _, q := range []string{"?limit=0", "?limit=abc", "?type=transfer", "?start_date=yesterday"} {
		assert.Equal(t, 400, ts.do("GET", "/v1/transactions"+q, "alice", nil).Code, q)
	}
}

func TestTransactionsNudgeSnapshot(t *testing.T) {
	ts := newTestServer(t, testRates, nil)
	require.Equal(t, 200, ts.do("POST", "/v1/onboarding", "alice", map[string]any{"sample": true}).Code)

	id := ts.createTx("alice", txBody("expense", 650, "Infrastructure", "2024-03-01"))
	ts.createTx("alice", txBody("income", 200, "Revenue", "2024-03-02"))

	burn := func() (float64, float64) {
		w := ts.do("GET", "/v1/dashboard", "alice", nil)
		require.Equal(t, 200, w.Code)
		body := decode(t, w)
		return body["monthly_burn"].(map[string]any)["base"].(float64),
			body["monthly_revenue"].(map[string]any)["base"].(float64)
	}

	b, r := burn()
	assert.Equal(t, 43000.0, b)
	assert.Equal(t, 68000.0, r)

	require.Equal(t, 200, ts.do("DELETE", "/v1/transactions/"+id, "alice", nil).Code)
	b, _ = burn()
	assert.Equal(t, 42350.0, b)
}
