package config

const (
	defaultConfigPath           = "~/.config/clinicwatch/config.toml"
	defaultWorkDir              = "~/.local/share/clinicwatch/screens"
	defaultStateDir             = "~/.local/share/clinicwatch"
	defaultLogDir               = "~/.local/share/clinicwatch/logs"
	defaultADBBinary            = "adb"
	defaultPackage              = "hk.org.ha.CMHandy"
	defaultActivity             = "hk.org.ha.cmhandy.MainActivity"
	defaultRemoteDir            = "/sdcard"
	defaultCommandTimeout       = 30
	defaultLaunchSettleSeconds  = 8
	defaultRefreshSettleSeconds = 5
	defaultBookSettleSeconds    = 5
	defaultPollIntervalMinutes  = 30
	defaultOCRLanguage          = "chi_tra"
	defaultPageSegMode          = 3
	defaultCropScale            = 1.0
	defaultNegativeIndicator    = "未有配額"
	defaultProvider             = ProviderDiscord
	defaultUsername             = "中醫診所預約監察員"
	defaultMessage              = "【！！！】針灸科可能有名額！請立即檢查！ @everyone"
	defaultRequestTimeout       = 10
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultLogRetentionDays     = 30
)

// Notification providers understood by the notifications package.
const (
	ProviderDiscord = "discord"
	ProviderNtfy    = "ntfy"
)

// WebhookEnvVar overrides notifications.webhook_url when the file leaves it empty.
const WebhookEnvVar = "CLINICWATCH_WEBHOOK_URL"

func defaultNavigationMarkers() []string {
	return []string{"科類", "選擇你所需要的科類"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:  defaultWorkDir,
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Device: Device{
			ADBBinary:      defaultADBBinary,
			Package:        defaultPackage,
			Activity:       defaultActivity,
			RefreshTap:     Point{X: 95, Y: 1282},
			BookTap:        Point{X: 899, Y: 1603},
			RemoteDir:      defaultRemoteDir,
			CommandTimeout: defaultCommandTimeout,
		},
		Timing: Timing{
			LaunchSettleSeconds:  defaultLaunchSettleSeconds,
			RefreshSettleSeconds: defaultRefreshSettleSeconds,
			BookSettleSeconds:    defaultBookSettleSeconds,
			PollIntervalMinutes:  defaultPollIntervalMinutes,
		},
		OCR: OCR{
			Language:    defaultOCRLanguage,
			PageSegMode: defaultPageSegMode,
			CropScale:   defaultCropScale,
		},
		Detection: Detection{
			NavigationMarkers:  defaultNavigationMarkers(),
			NegativeIndicator:  defaultNegativeIndicator,
			AvailabilityRegion: Region{Left: 82, Top: 1029, Right: 1000, Bottom: 1174},
		},
		Notifications: Notifications{
			Provider:       defaultProvider,
			Username:       defaultUsername,
			Message:        defaultMessage,
			RequestTimeout: defaultRequestTimeout,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
