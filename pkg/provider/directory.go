package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/Jeffail/gabs/v2"
)

// DefaultGraphQLURL is the VCI company directory endpoint.
const DefaultGraphQLURL = "https://trading.vietcap.com.vn/data-mt/graphql"

const (
	directoryProvider = "vci_graphql"
	graphqlPath       = "/"

	companiesPath     = "data.CompaniesListingInfo"
	industryCodesPath = "data.ListIcbCode"

	industryCodesQuery = "query Query {\n  ListIcbCode {\n    icbCode\n    level\n    icbName\n    enIcbName\n    __typename\n  }\n}"
)

var fieldPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// DirectoryClient queries the company directory over GraphQL and serves
// intraday market charts from the quote REST API.
type DirectoryClient struct {
	graphql *restClient
	rest    *restClient
}

// NewDirectoryClient creates a directory client. graphqlCfg.BaseURL defaults to
// DefaultGraphQLURL and restCfg.BaseURL to DefaultVCIBaseURL.
func NewDirectoryClient(graphqlCfg, restCfg Config) *DirectoryClient {
	if graphqlCfg.BaseURL == "" {
		graphqlCfg.BaseURL = DefaultGraphQLURL
	}
	if restCfg.BaseURL == "" {
		restCfg.BaseURL = DefaultVCIBaseURL
	}
	return &DirectoryClient{
		graphql: newRESTClient(directoryProvider, graphqlCfg),
		rest:    newRESTClient(vciProvider, restCfg),
	}
}

type graphqlRequest struct {
	OperationName string         `json:"operationName,omitempty"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
}

// companiesQuery renders the CompaniesListingInfo selection. __typename is always requested.
func companiesQuery(fields []string) (string, error) {
	var b strings.Builder
	b.WriteString("{\n  CompaniesListingInfo {\n")
	for _, f := range fields {
		if !fieldPattern.MatchString(f) {
			return "", fmt.Errorf("%w: %q", ErrInvalidField, f)
		}
		if f == "__typename" {
			continue
		}
		b.WriteString("    ")
		b.WriteString(f)
		b.WriteString("\n")
	}
	b.WriteString("    __typename\n  }\n}")
	return b.String(), nil
}

// query posts a GraphQL request and returns the children found at path.
func (c *DirectoryClient) query(ctx context.Context, operation string, req graphqlRequest, path string) ([]*gabs.Container, error) {
	if req.Variables == nil {
		req.Variables = map[string]any{}
	}

	var raw json.RawMessage
	if err := c.graphql.do(ctx, operation, http.MethodPost, graphqlPath, req, &raw); err != nil {
		return nil, err
	}

	parsed, err := gabs.ParseJSON(raw)
	if err != nil {
		return nil, c.graphql.shape(operation, "response is not JSON")
	}

	children := parsed.Path(path).Children()
	if len(children) == 0 {
		return nil, c.graphql.shape(operation, fmt.Sprintf("no records at %s", path))
	}
	return children, nil
}

// CompaniesListingInfo returns every listed company with the requested fields.
// An empty field list selects DefaultCompanyFields.
func (c *DirectoryClient) CompaniesListingInfo(ctx context.Context, fields []string) ([]CompanyRecord, error) {
	if len(fields) == 0 {
		fields = DefaultCompanyFields
	}

	q, err := companiesQuery(fields)
	if err != nil {
		return nil, err
	}

	children, err := c.query(ctx, "companies", graphqlRequest{Query: q}, companiesPath)
	if err != nil {
		return nil, err
	}

	companies := make([]CompanyRecord, 0, len(children))
	for _, child := range children {
		m, ok := child.Data().(map[string]interface{})
		if !ok {
			continue
		}
		companies = append(companies, CompanyRecord(m))
	}

	if len(companies) == 0 {
		return nil, c.graphql.shape("companies", "company records are not objects")
	}
	return companies, nil
}

// IndustryCodeList returns the ICB classification codes.
func (c *DirectoryClient) IndustryCodeList(ctx context.Context) ([]IndustryCode, error) {
	req := graphqlRequest{OperationName: "Query", Query: industryCodesQuery}

	children, err := c.query(ctx, "industry_codes", req, industryCodesPath)
	if err != nil {
		return nil, err
	}

	codes := make([]IndustryCode, 0, len(children))
	for _, child := range children {
		var code IndustryCode
		if err := json.Unmarshal(child.Bytes(), &code); err != nil {
			return nil, c.graphql.shape("industry_codes", "malformed industry code")
		}
		codes = append(codes, code)
	}
	return codes, nil
}

// ChartOHLC returns intraday bars for market indices as the upstream sends
// them. An empty TimeFrame selects one-minute bars.
func (c *DirectoryClient) ChartOHLC(ctx context.Context, params ChartParams) (json.RawMessage, error) {
	tf := params.TimeFrame
	if tf == "" {
		tf = TimeFrameMinute
	}

	body := chartRequest{
		TimeFrame: tf,
		Symbols:   params.Symbols,
		From:      params.From,
		To:        params.To,
	}

	var raw json.RawMessage
	if err := c.rest.do(ctx, "chart", http.MethodPost, chartPath, body, &raw); err != nil {
		return nil, err
	}
	if isEmptyJSON(raw) {
		return nil, c.rest.shape("chart", "empty chart response")
	}
	return raw, nil
}

// Close releases idle connections of both transports.
func (c *DirectoryClient) Close() error {
	gerr := c.graphql.close()
	if err := c.rest.close(); err != nil {
		return err
	}
	return gerr
}
