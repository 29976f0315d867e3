package model

// AppConfig is one platform configuration entry. Entries are scoped by
// environment; the "global" environment applies everywhere and is overlaid
// by the current environment's entries at read time.
type AppConfig struct {
	BaseModel
	ConfigKey   string `gorm:"type:varchar(128);uniqueIndex:uk_app_config_key_env;not null" json:"configKey"`
	Environment string `gorm:"type:varchar(32);uniqueIndex:uk_app_config_key_env;not null" json:"environment"`
	Value       string `gorm:"type:text" json:"value"`
	Description string `gorm:"type:varchar(512)" json:"description"`
}

// TableName specifies the table name for AppConfig model
func (AppConfig) TableName() string {
	return "app_config"
}

// EnvironmentGlobal is the catch-all scope overlaid by concrete environments.
const EnvironmentGlobal = "global"
