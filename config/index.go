package config

import (
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/kevinyjn/gowsc/definations"
	"github.com/kevinyjn/gowsc/logger"
	"gopkg.in/yaml.v2"
)

// UsernameTokenConfig config block
type UsernameTokenConfig struct {
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	Digest     bool   `yaml:"digest"`
	AddNonce   bool   `yaml:"addNonce"`
	AddCreated bool   `yaml:"addCreated"`
}

// TimestampConfig config block
type TimestampConfig struct {
	TimeToLiveSeconds int `yaml:"timeToLiveSeconds"`
}

// SignConfig config block
type SignConfig struct {
	KeystoreFile     string `yaml:"keystoreFile"`
	KeystorePassword string `yaml:"keystorePassword"`
	Validate         bool   `yaml:"validate"`
}

// SecurityConfig config block
type SecurityConfig struct {
	UsernameToken *UsernameTokenConfig `yaml:"usernameToken"`
	Timestamp     *TimestampConfig     `yaml:"timestamp"`
	Sign          *SignConfig          `yaml:"sign"`
}

// WebServiceConfig describes one consumed soap web service
type WebServiceConfig struct {
	Address          string                 `yaml:"address"`
	SoapVersion      string                 `yaml:"soapVersion"`
	Mtom             bool                   `yaml:"mtom"`
	Encoding         string                 `yaml:"encoding"`
	TimeoutSeconds   int                    `yaml:"timeoutSeconds"`
	TLS              definations.TLSOptions `yaml:"tls"`
	Proxies          *definations.Proxies   `yaml:"proxies"`
	TransportHeaders map[string]string      `yaml:"transportHeaders"`
	Security         SecurityConfig         `yaml:"security"`
}

// Env config block
type Env struct {
	Logger      logger.Logger               `yaml:"logger"`
	WebServices map[string]WebServiceConfig `yaml:"webServices"`
}

var env = Env{}

// GetEnv getter
func GetEnv() *Env {
	return &env
}

// GetWebService looks a configured web service up by name
func (e *Env) GetWebService(name string) (*WebServiceConfig, bool) {
	cfg, ok := e.WebServices[name]
	if !ok {
		return nil, false
	}
	return &cfg, true
}

// Init initializer, loads the configure file overlaid by a local. prefixed
// one aside it
func Init(filePath string) (*Env, error) {
	cfgLoaded := true
	cfgDir, cfgFile := path.Split(filePath)
	err := LoadYamlConfig(filePath, &env)
	if err != nil {
		cfgLoaded = false
	}
	err = LoadYamlConfig(path.Join(cfgDir, "local."+cfgFile), &env)
	if !cfgLoaded && err != nil {
		log.Println("Please check the configure file and restart.")
		return nil, err
	}
	normalizeEnvPaths()
	return &env, nil
}

// LoadYamlConfig loads one yaml configure file into v
func LoadYamlConfig(filePath string, v interface{}) error {
	confContent, err := ioutil.ReadFile(filePath)
	if err != nil {
		if !strings.Contains(filePath, "local.") {
			fmt.Println("Could not load configure file ", filePath)
		}
		return err
	}
	fmt.Println("Loading configure file ", filePath)
	err = yaml.Unmarshal(confContent, v)
	if err != nil {
		fmt.Println("Could not load configure file ", filePath, ", ", err)
		return err
	}
	return nil
}

// normalizeEnvPaths resolves the relative certificate and keystore paths
// against the executable directory
func normalizeEnvPaths() {
	curPath, err := filepath.Abs(filepath.Dir(os.Args[0]))
	if err != nil {
		return
	}
	for name, ws := range env.WebServices {
		chkPaths := []*string{&ws.TLS.CaFile, &ws.TLS.CertFile, &ws.TLS.KeyFile}
		if nil != ws.Security.Sign {
			chkPaths = append(chkPaths, &ws.Security.Sign.KeystoreFile)
		}
		for _, chkPath := range chkPaths {
			if *chkPath != "" && strings.HasPrefix(*chkPath, ".") {
				*chkPath = path.Join(curPath, *chkPath)
			}
		}
		env.WebServices[name] = ws
	}
}
