package config

// SchemaConfig describes the fixed layout of each input source. The
// defaults are the layouts of the published datasets; a file that does not
// match fails to load instead of producing shifted numbers.
type SchemaConfig struct {
	Towns   TownsSchema   `yaml:"towns" envconfig:"TOWNS"`
	GDP     GDPSchema     `yaml:"gdp" envconfig:"GDP"`
	Housing HousingSchema `yaml:"housing" envconfig:"HOUSING"`
}

// TownsSchema describes the university town text list.
type TownsSchema struct {
	// HeaderMarker identifies state header lines.
	HeaderMarker string `yaml:"header_marker" envconfig:"HEADER_MARKER" validate:"required"`
}

// GDPSchema describes the GDP spreadsheet. Row offsets are zero based;
// HeaderRow and DataRow count from the first row after SkipRows.
type GDPSchema struct {
	Sheet         string `yaml:"sheet" envconfig:"SHEET"`
	SkipRows      int    `yaml:"skip_rows" envconfig:"SKIP_ROWS" validate:"min=0"`
	HeaderRow     int    `yaml:"header_row" envconfig:"HEADER_ROW" validate:"min=0"`
	DataRow       int    `yaml:"data_row" envconfig:"DATA_ROW" validate:"gtfield=HeaderRow"`
	QuarterColumn int    `yaml:"quarter_column" envconfig:"QUARTER_COLUMN" validate:"min=0"`
	GDPColumn     int    `yaml:"gdp_column" envconfig:"GDP_COLUMN" validate:"min=0,nefield=QuarterColumn"`
	// StartOffset is the number of data rows before StartQuarter.
	StartOffset  int    `yaml:"start_offset" envconfig:"START_OFFSET" validate:"min=0"`
	StartQuarter string `yaml:"start_quarter" envconfig:"START_QUARTER" validate:"required,len=6"`
}

// HousingSchema describes the wide monthly housing CSV.
type HousingSchema struct {
	StateColumn  string   `yaml:"state_column" envconfig:"STATE_COLUMN" validate:"required"`
	RegionColumn string   `yaml:"region_column" envconfig:"REGION_COLUMN" validate:"required"`
	FirstMonth   string   `yaml:"first_month" envconfig:"FIRST_MONTH" validate:"required,len=7"`
	DropColumns  []string `yaml:"drop_columns" envconfig:"DROP_COLUMNS"`
	// StrictStates turns unmapped state abbreviations into a load error
	// instead of rows without a state.
	StrictStates bool `yaml:"strict_states" envconfig:"STRICT_STATES"`
}

// DefaultSchema returns the layout of the published gdplev, Zillow and
// Wikipedia town list files.
func DefaultSchema() SchemaConfig {
	return SchemaConfig{
		Towns: TownsSchema{
			HeaderMarker: "[edit]",
		},
		GDP: GDPSchema{
			SkipRows:      4,
			HeaderRow:     1,
			DataRow:       4,
			QuarterColumn: 4,
			GDPColumn:     6,
			StartOffset:   212,
			StartQuarter:  "2000q1",
		},
		Housing: HousingSchema{
			StateColumn:  "State",
			RegionColumn: "RegionName",
			FirstMonth:   "2000-01",
			DropColumns:  []string{"RegionID", "Metro", "CountyName", "SizeRank"},
		},
	}
}
