package config

type Config struct {
	Database            DatabaseConfig
	TechnicalParameters TechnicalParameters
	Retention           RetentionConfig
	Backup              BackupConfig
	S3Storage           S3Config
	Monitoring          MonitoringConfig
}

type DatabaseConfig struct {
	Host     string `validate:"required"`
	Port     int    `validate:"required"`
	Name     string `validate:"required"`
	Username string `validate:"required"`
	Password string `validate:"required" sensitive:"true"`
}

type TechnicalParameters struct {
	InstanceId     string
	ListenAddress  string `validate:"required"`
	BackendVersion string
}

type RetentionConfig struct {
	BatchSize     int `validate:"gte=100,lte=10000"`
	SweepSchedule string
	SweepEnabled  bool
}

type BackupConfig struct {
	Directory        string `validate:"required"`
	EncryptionSecret string `validate:"required,min=16" sensitive:"true"`
	RetainDays       int    `validate:"gte=1"`
	CleanupSchedule  string
}

type S3Config struct {
	Enabled         bool
	Url             string
	AccessKeyId     string
	SecretAccessKey string `sensitive:"true"`
	Crt             string
	BucketName      string
}

type MonitoringConfig struct {
	Enabled bool
}
