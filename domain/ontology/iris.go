package ontology

// Namespace is the OBO base IRI under which STATO terms live.
const Namespace = "http://purl.obolibrary.org/obo/"

// EntityNamespace is the base IRI for evidence subject instances.
const EntityNamespace = "http://example.org/evidence/"

// Class IRIs for the statistical test types the validator recognizes.
// Codes are STATO term identifiers.
const (
	// ClassTTest is Student's t-test.
	ClassTTest = Namespace + "STATO_0000176"

	// ClassChiSquare is the chi-square test.
	ClassChiSquare = Namespace + "STATO_0000149"

	// ClassLogisticRegression is logistic regression.
	ClassLogisticRegression = Namespace + "STATO_0000323"

	// ClassKaplanMeier is Kaplan-Meier survival analysis.
	ClassKaplanMeier = Namespace + "STATO_0000424"
)

// Property IRIs for test-specific statistic edges.
const (
	// PropDependentVariable carries the primary statistic or outcome.
	PropDependentVariable = Namespace + "has_dependent_variable"

	// PropIndependentVariable carries a declared covariate.
	PropIndependentVariable = Namespace + "has_independent_variable"

	// PropPValue carries the reported p-value.
	PropPValue = Namespace + "has_p_value"

	// PropSampleSize carries the sample size.
	PropSampleSize = Namespace + "has_sample_size"

	// PropCoefficient carries one regression coefficient.
	PropCoefficient = Namespace + "has_coefficient"

	// PropOddsRatio carries one odds ratio.
	PropOddsRatio = Namespace + "has_odds_ratio"

	// PropTimeVariable carries one time-to-event value.
	PropTimeVariable = Namespace + "has_time_variable"

	// PropEventStatus carries one censoring/event flag.
	PropEventStatus = Namespace + "has_event_status"
)

// Property IRIs for type-independent FAIR provenance edges.
const (
	// PropLicense carries the declared data license.
	PropLicense = Namespace + "has_license"

	// PropIdentifier carries the primary identifier (e.g. a DOI).
	PropIdentifier = Namespace + "has_identifier"

	// PropVersion carries the record version.
	PropVersion = Namespace + "has_version"
)
