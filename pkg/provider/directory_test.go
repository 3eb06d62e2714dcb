package provider

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Sternrassler/vnstock-cache/internal/testutil"
)

const graphqlMockPath = "/data-mt/graphql"

func newTestDirectory(t *testing.T) (*DirectoryClient, *testutil.MockUpstream) {
	t.Helper()

	mock := testutil.NewMockUpstream()
	t.Cleanup(mock.Close)

	client := NewDirectoryClient(
		Config{BaseURL: mock.URL() + graphqlMockPath, Timeout: 2 * time.Second},
		Config{BaseURL: mock.URL() + "/api", Timeout: 2 * time.Second},
	)
	t.Cleanup(func() { client.Close() })

	return client, mock
}

func TestCompaniesQuery(t *testing.T) {
	q, err := companiesQuery([]string{"ticker", "icbName4"})
	if err != nil {
		t.Fatalf("companiesQuery failed: %v", err)
	}

	for _, want := range []string{"CompaniesListingInfo", "ticker", "icbName4", "__typename"} {
		if !strings.Contains(q, want) {
			t.Errorf("query missing %q:\n%s", want, q)
		}
	}

	if strings.Count(mustQuery(t, []string{"ticker", "__typename"}), "__typename") != 1 {
		t.Error("__typename should be requested once")
	}

	if _, err := companiesQuery([]string{"ticker } evil {"}); !errors.Is(err, ErrInvalidField) {
		t.Errorf("expected ErrInvalidField, got %v", err)
	}
}

func mustQuery(t *testing.T, fields []string) string {
	t.Helper()
	q, err := companiesQuery(fields)
	if err != nil {
		t.Fatal(err)
	}
	return q
}

func TestDirectoryClient_CompaniesListingInfo(t *testing.T) {
	client, mock := newTestDirectory(t)

	mock.SetResponse(graphqlMockPath, testutil.NewJSONResponse(`{"data":{"CompaniesListingInfo":[
		{"ticker":"VCB","organName":"Vietcombank","icbName4":"Banks","comTypeCode":"NH","__typename":"CompaniesListingInfo"},
		{"ticker":"FPT","organName":"FPT Corp","icbName4":"Software","comTypeCode":"CT","__typename":"CompaniesListingInfo"}
	]}}`))

	companies, err := client.CompaniesListingInfo(context.Background(), nil)
	if err != nil {
		t.Fatalf("CompaniesListingInfo failed: %v", err)
	}

	if len(companies) != 2 {
		t.Fatalf("len = %d, want 2", len(companies))
	}
	if companies[0].Ticker() != "VCB" || companies[1].Field("icbName4") != "Software" {
		t.Errorf("unexpected companies: %+v", companies)
	}

	var req graphqlRequest
	if err := json.Unmarshal(mock.LastBody(graphqlMockPath), &req); err != nil {
		t.Fatalf("request body: %v", err)
	}
	for _, f := range DefaultCompanyFields {
		if !strings.Contains(req.Query, f) {
			t.Errorf("default query missing field %q", f)
		}
	}
	if req.Variables == nil {
		t.Error("variables should be sent as an empty object")
	}
}

func TestDirectoryClient_CompaniesListingInfo_ShapeErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing data", `{"errors":[{"message":"boom"}]}`},
		{"empty list", `{"data":{"CompaniesListingInfo":[]}}`},
		{"null list", `{"data":{"CompaniesListingInfo":null}}`},
		{"non-object rows", `{"data":{"CompaniesListingInfo":["VCB","FPT"]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, mock := newTestDirectory(t)
			mock.SetResponse(graphqlMockPath, testutil.NewJSONResponse(tt.body))

			_, err := client.CompaniesListingInfo(context.Background(), nil)
			if KindOf(err) != KindShape {
				t.Errorf("KindOf() = %q, want %q (err=%v)", KindOf(err), KindShape, err)
			}
		})
	}
}

func TestDirectoryClient_CompaniesListingInfo_ServerError(t *testing.T) {
	client, mock := newTestDirectory(t)
	mock.SetResponse(graphqlMockPath, testutil.NewServerErrorResponse())

	_, err := client.CompaniesListingInfo(context.Background(), nil)
	if KindOf(err) != KindFetch {
		t.Errorf("KindOf() = %q, want %q", KindOf(err), KindFetch)
	}
}

func TestDirectoryClient_IndustryCodeList(t *testing.T) {
	client, mock := newTestDirectory(t)
	mock.SetResponse(graphqlMockPath, testutil.NewJSONResponse(`{"data":{"ListIcbCode":[
		{"icbCode":"8300","level":2,"icbName":"Ngân hàng","enIcbName":"Banks","__typename":"IcbCode"}
	]}}`))

	codes, err := client.IndustryCodeList(context.Background())
	if err != nil {
		t.Fatalf("IndustryCodeList failed: %v", err)
	}

	want := IndustryCode{IcbCode: "8300", Level: 2, IcbName: "Ngân hàng", EnIcbName: "Banks"}
	if len(codes) != 1 || codes[0] != want {
		t.Errorf("codes = %+v, want [%+v]", codes, want)
	}

	var req graphqlRequest
	json.Unmarshal(mock.LastBody(graphqlMockPath), &req)
	if req.OperationName != "Query" || !strings.Contains(req.Query, "ListIcbCode") {
		t.Errorf("unexpected request: %+v", req)
	}
}

func TestDirectoryClient_ChartOHLC(t *testing.T) {
	client, mock := newTestDirectory(t)
	mock.SetResponse("/api/chart/OHLCChart/gap", testutil.NewJSONResponse(`[{"symbol":"VNINDEX","c":[1100.5]}]`))

	raw, err := client.ChartOHLC(context.Background(), ChartParams{
		Symbols: []string{"VNINDEX"},
		From:    1672531200,
		To:      1672617600,
	})
	if err != nil {
		t.Fatalf("ChartOHLC failed: %v", err)
	}
	if string(raw) != `[{"symbol":"VNINDEX","c":[1100.5]}]` {
		t.Errorf("payload altered: %s", raw)
	}

	var body chartRequest
	json.Unmarshal(mock.LastBody("/api/chart/OHLCChart/gap"), &body)
	if body.TimeFrame != TimeFrameMinute || body.From != 1672531200 || body.To != 1672617600 {
		t.Errorf("unexpected chart request: %+v", body)
	}
}
