package exception

const (
	BadRequestBody    = "10"
	BadRequestBodyMsg = "Failed to decode body"

	InvalidURLEscape    = "11"
	InvalidURLEscapeMsg = "Failed to unescape parameter $param"

	IncorrectParamType    = "12"
	IncorrectParamTypeMsg = "$param parameter should be $type"

	InvalidParameterValue    = "13"
	InvalidParameterValueMsg = "Value '$value' is not allowed for parameter $param"

	InvalidLimitMsg = "Limit value must be in range 1..$maxLimit, got $value"

	RequiredParamsMissing    = "14"
	RequiredParamsMissingMsg = "Required parameters are missing: $params"

	RetentionPolicyNotFound    = "2100"
	RetentionPolicyNotFoundMsg = "Retention policy $policyId not found"

	RetentionDaysOutOfRange    = "2101"
	RetentionDaysOutOfRangeMsg = "retentionDays must be in range $min..$max, got $value"

	InvalidRetentionAction    = "2102"
	InvalidRetentionActionMsg = "Retention action '$action' is not supported, expected 'archive' or 'delete'"

	RetentionPolicyInactive    = "2103"
	RetentionPolicyInactiveMsg = "Retention policy $policyId is not active"

	InvalidRiskLevelRange    = "2104"
	InvalidRiskLevelRangeMsg = "Risk level bounds must be in range $min..$max with riskLevelMin <= riskLevelMax"

	InvalidDateRange    = "2105"
	InvalidDateRangeMsg = "Invalid date range: 'dateFrom' must be before 'dateTo'"

	CleanupRunNotFound    = "2110"
	CleanupRunNotFoundMsg = "Cleanup run $runId not found"

	BackupNotFound    = "2200"
	BackupNotFoundMsg = "Backup $filename not found"

	BackupChecksumMismatch    = "2202"
	BackupChecksumMismatchMsg = "Backup $filename failed integrity verification: checksum mismatch"

	BackupDecryptionFailed    = "2203"
	BackupDecryptionFailedMsg = "Failed to decrypt backup $filename"

	BackupStorageUnavailable    = "2204"
	BackupStorageUnavailableMsg = "Backup artifact storage is not available"

	InvalidBackupArtifact    = "2205"
	InvalidBackupArtifactMsg = "File $filename is not a valid backup artifact"
)
