package config

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

type Database struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int
}

type Rabbit struct {
	Host     string
	Port     int
	User     string
	Password string
	VHost    string
}

type HTTP struct {
	OrderPort   int
	KitchenPort int
}

type Config struct {
	Database Database
	Rabbit   Rabbit
	HTTP     HTTP
}

// Load reads the config file. The format is a two-level YAML subset:
// `database:`, `rabbitmq:` and `http:` sections with key: value pairs.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg := Config{
		Database: Database{Port: 5432, SSLMode: "disable", MaxConns: 10},
		Rabbit:   Rabbit{Port: 5672, VHost: "/"},
		HTTP:     HTTP{OrderPort: 3000, KitchenPort: 3001},
	}

	var section string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasSuffix(line, ":") && !strings.Contains(line, " ") {
			section = strings.TrimSuffix(line, ":")
			continue
		}
		kv := strings.SplitN(line, ":", 2)
		if len(kv) != 2 {
			continue
		}
		key := strings.TrimSpace(kv[0])
		val := strings.Trim(strings.TrimSpace(kv[1]), `"'`)

		switch section {
		case "database":
			switch key {
			case "host":
				cfg.Database.Host = val
			case "port":
				cfg.Database.Port = atoiDefault(val, 5432)
			case "user":
				cfg.Database.User = val
			case "password":
				cfg.Database.Password = val
			case "database":
				cfg.Database.Name = val
			case "sslmode":
				cfg.Database.SSLMode = val
			case "max_conns":
				cfg.Database.MaxConns = atoiDefault(val, 10)
			}
		case "rabbitmq":
			switch key {
			case "host":
				cfg.Rabbit.Host = val
			case "port":
				cfg.Rabbit.Port = atoiDefault(val, 5672)
			case "user":
				cfg.Rabbit.User = val
			case "password":
				cfg.Rabbit.Password = val
			case "vhost":
				cfg.Rabbit.VHost = val
			}
		case "http":
			switch key {
			case "order_port":
				cfg.HTTP.OrderPort = atoiDefault(val, 3000)
			case "kitchen_port":
				cfg.HTTP.KitchenPort = atoiDefault(val, 3001)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if cfg.Database.Host == "" || cfg.Rabbit.Host == "" {
		return Config{}, errors.New("invalid config: missing database/rabbitmq host")
	}
	return cfg, nil
}

// Find returns the first config file present among the usual locations.
func Find() (string, error) {
	for _, p := range []string{"config.yaml", "config.example.yaml"} {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fs.ErrNotExist
}

func atoiDefault(s string, d int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return n
}
