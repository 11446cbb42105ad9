package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Configuration struct {
	Host           string        `mapstructure:"host" json:"host"`
	WorkspaceID    string        `mapstructure:"workspace_id" json:"workspace_id"`
	AccessKey      string        `mapstructure:"access_key" json:"access_key"`
	SecretKey      string        `mapstructure:"secret_key" json:"-"`
	Token          string        `mapstructure:"token" json:"-"`
	Insecure       bool          `mapstructure:"insecure" json:"insecure"`
	Timeout        time.Duration `mapstructure:"timeout" json:"timeout"`
	RepositoryPath string        `mapstructure:"repository_path" json:"repository_path"`
	ContractPath   string        `mapstructure:"contract_path" json:"contract_path"`
	Git            GitConfig     `mapstructure:"git" json:"git"`
	Log            LogConfig     `mapstructure:"log" json:"log"`
}

type GitConfig struct {
	Remote                string `mapstructure:"remote" json:"remote"`
	SSHKeyPath            string `mapstructure:"ssh_key_path" json:"ssh_key_path"`
	SSHKeyPassphrase      string `mapstructure:"ssh_key_passphrase" json:"-"`
	KnownHostsPath        string `mapstructure:"known_hosts_path" json:"known_hosts_path"`
	InsecureIgnoreHostKey bool   `mapstructure:"insecure_ignore_host_key" json:"insecure_ignore_host_key"`
	Username              string `mapstructure:"username" json:"username"`
	Password              string `mapstructure:"password" json:"-"`
	AuthorName            string `mapstructure:"author_name" json:"author_name"`
	AuthorEmail           string `mapstructure:"author_email" json:"author_email"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" json:"level"`
	Format string `mapstructure:"format" json:"format"`
}

func (c Configuration) String() string {
	data, err := json.MarshalIndent(&c, "", "    ")
	if err != nil {
		return ""
	}
	return string(data)
}

func (c Configuration) HasKeys() bool {
	return c.AccessKey != "" && c.SecretKey != ""
}

func (c Configuration) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("'host' is required")
	}
	if c.WorkspaceID == "" {
		return fmt.Errorf("'workspace_id' is required")
	}
	if !c.HasKeys() && c.Token == "" {
		return fmt.Errorf("either 'access_key' and 'secret_key' or 'token' is required")
	}
	return nil
}

// LoadConfiguration reads defaults, then the optional file at path, then
// MLDEPLOY_* environment overrides.
func LoadConfiguration(path string) (*Configuration, error) {
	v := viper.New()

	v.SetDefault("host", "")
	v.SetDefault("workspace_id", "")
	v.SetDefault("access_key", "")
	v.SetDefault("secret_key", "")
	v.SetDefault("token", "")
	v.SetDefault("insecure", false)
	v.SetDefault("timeout", "10m")
	v.SetDefault("repository_path", ".")
	v.SetDefault("contract_path", "")
	v.SetDefault("git.remote", "origin")
	v.SetDefault("git.ssh_key_path", "")
	v.SetDefault("git.ssh_key_passphrase", "")
	v.SetDefault("git.known_hosts_path", "")
	v.SetDefault("git.insecure_ignore_host_key", false)
	v.SetDefault("git.username", "")
	v.SetDefault("git.password", "")
	v.SetDefault("git.author_name", "mldeploy")
	v.SetDefault("git.author_email", "mldeploy@localhost")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	if path == "" {
		path = GetConfigPath()
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("Failed read configuration: %v", err)
		}
	}

	v.SetEnvPrefix("MLDEPLOY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	conf := Configuration{}
	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("Failed parse configuration: %v", err)
	}
	return &conf, nil
}
