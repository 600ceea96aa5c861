package operations

// Step identifiers
const (
	StepIDTowns   = "towns"
	StepIDGDP     = "gdp"
	StepIDHousing = "housing"
	StepIDTTest   = "ttest"
	StepIDExport  = "export"
)

// Step names
const (
	StepNameTowns   = "University Town List"
	StepNameGDP     = "GDP Recession Window"
	StepNameHousing = "Quarterly Housing Prices"
	StepNameTTest   = "Hypothesis Test"
	StepNameExport  = "Report Export"
)

// TracerName is the instrumentation scope of run and step spans
const TracerName = "unihousing.operations"
