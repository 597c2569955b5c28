package warehouse

import "testing"

func TestQuoteLiteral(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"plain", "'plain'"},
		{"", "''"},
		{"O'Brien", "'O''Brien'"},
		{`{"fields":[]}`, `'{"fields":[]}'`},
	}

	for _, tc := range cases {
		if got := QuoteLiteral(tc.in); got != tc.expected {
			t.Errorf("QuoteLiteral(%q): expected %s, got %s", tc.in, tc.expected, got)
		}
	}
}

func TestQuoteIdentPerBackend(t *testing.T) {
	databricks := &DatabricksGateway{}
	bigquery := &BigQueryGateway{}
	snowflake := &SnowflakeGateway{}

	cases := []struct {
		gateway  Gateway
		in       string
		expected string
	}{
		{databricks, "2_table_config", "`2_table_config`"},
		{databricks, "odd`name", "`odd``name`"},
		{bigquery, "table_config", "`table_config`"},
		{snowflake, "2_table_config", `"2_table_config"`},
		{snowflake, `odd"name`, `"odd""name"`},
	}

	for _, tc := range cases {
		if got := tc.gateway.QuoteIdent(tc.in); got != tc.expected {
			t.Errorf("%s QuoteIdent(%q): expected %s, got %s", tc.gateway.Name(), tc.in, tc.expected, got)
		}
	}
}

func TestQuotedRegistryNameIsBackendSpecific(t *testing.T) {
	parts := []string{"romy_demo", "dlt_cdc_scd_demo", "2_table_config"}

	quote := func(g Gateway) string {
		return g.QuoteIdent(parts[0]) + "." + g.QuoteIdent(parts[1]) + "." + g.QuoteIdent(parts[2])
	}

	if got := quote(&DatabricksGateway{}); got != "`romy_demo`.`dlt_cdc_scd_demo`.`2_table_config`" {
		t.Errorf("Databricks registry name: got %s", got)
	}
	if got := quote(&SnowflakeGateway{}); got != `"romy_demo"."dlt_cdc_scd_demo"."2_table_config"` {
		t.Errorf("Snowflake registry name: got %s", got)
	}
}
