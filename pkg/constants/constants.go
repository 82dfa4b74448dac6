// Package constants provides shared constants for the fte-report application.
package constants

// FTE policy constants
const (
	// WeeksPerTerm scales weekly contact hours to a full term
	WeeksPerTerm = 16

	// FTEDivisor converts term contact hours into full-time equivalents
	FTEDivisor = 512

	// FTEPrecision is the number of decimals Total FTE is rounded to
	FTEPrecision = 3

	// BaseSupportConstant is the fixed institutional and academic support
	// amount added to every tier multiplier
	BaseSupportConstant = 1926.0

	// PrefixLength is the length of a section-name subject prefix (e.g. "CSC")
	PrefixLength = 3

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)

// Aggregate row labels written to the course code column
const (
	LabelSubtotal       = "Total"
	LabelCourseTotal    = "COURSE TOTAL"
	LabelDivisionTotal  = "DIVISION TOTAL"
	LabelGrandTotal     = "TOTAL"
	LabelSubtotalLegacy = "SUBTOTAL"
)

// Input column names
const (
	ColSecName        = "Sec Name"
	ColCourseCode     = "Course Code"
	ColCapacity       = "Capacity"
	ColFTECount       = "FTE Count"
	ColDivision       = "Sec Divisions"
	ColFaculty        = "Sec Faculty Info"
	ColDelivery       = "X Sec Delivery Method"
	ColMeetingTimes   = "Meeting Times"
	ColContactHours   = "Contact Hours"
	ColTierKey        = "Prefix/Course ID"
	ColTierMultiplier = "New Sector"
)

// Output column names
const (
	ColDivisionOut   = "Division"
	ColInstructor    = "Instructor"
	ColTotalFTE      = "Total FTE"
	ColGeneratedFTE  = "Generated FTE"
	ColEnrollmentPer = "Enrollment Per"
	ColEnrollmentPct = "Enrollment Percentage"
)

// Enrollment display values
const (
	EnrollmentZero         = "0%"
	EnrollmentUnavailable  = "N/A%"
	SpreadsheetNumberError = "#NUM!"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Tier key granularity for the course view
const (
	TierKeyCourse = "course"
	TierKeyPrefix = "prefix"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix prefixes environment overrides (e.g. FTE_DATA_TIERS)
	EnvPrefix = "FTE"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for section files (10 MB)
	DefaultMaxUploadSizeBytes int64 = 10 * 1024 * 1024
)

// Chart sizes used by the source reports
const (
	TopSectionsDivision   = 10
	TopSectionsCourse     = 10
	TopSectionsInstructor = 5
)
