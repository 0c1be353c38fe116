package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"reflect"
	"strings"
	"syscall"
	"time"

	"botwatch/config"
	"botwatch/internal/command"
	"botwatch/internal/log"
	"botwatch/utils/path"
	"botwatch/utils/validate"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "botwatch/cmd/docs"
)

var (
	rootPath = path.RootPath()
	Version  string
	envPath  string
	yamlPath string
	conf     *config.Configuration
	logger   *zap.Logger
	logLevel zap.AtomicLevel
	watcher  *viper.Viper // 只有指定設定檔時才監看
)

// @title        botwatch API
// @version      1.0
// @description  AI bot (ChatGPT / Gemini / Claude) 偵測與紀錄服務
// @host         localhost:3000
// @basePath     /

// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
// @description 請在欄位輸入 "Bearer {token}"，token 可由 `app token` 產生
func main() {
	rootCmd := &cobra.Command{
		Use:          "app",
		Short:        "AI bot detection service",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if conf == nil {
				panic("config is nil! Check config/initConfig logic.")
			}
			defer logger.Sync()
			app, cleanup, err := wireApp(conf, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			logger.Info("start app ...")
			if err := app.Run(); err != nil {
				return err
			}

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			select {
			case <-quit:
			case err := <-app.Done():
				logger.Error("server exited unexpectedly", zap.Error(err))
			}

			logger.Info("shutdown app ...")
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			return app.Stop(ctx)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&envPath, "env", "e", "", "Environment file, e.g. --env .env")
	rootCmd.PersistentFlags().StringVarP(&yamlPath, "config", "c", "", "YAML config file, e.g. --config config.yaml")

	cobra.OnInitialize(func() {
		if envPath != "" && yamlPath != "" {
			fmt.Println("同時指定 --env 與 --config，將以 --env 優先")
		}
		initConfig()
		initLogger()
		watchConfig()
	})

	command.Register(rootCmd, func() (*command.Command, func(), error) {
		return wireCommand(conf, logger)
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initLogger() {
	level, err := log.NewLevel(conf.Log.Level)
	if err != nil {
		panic(fmt.Errorf("init logger failed: %w", err))
	}
	logLevel = level
	logger = log.NewLoggerWithLevel(conf, logLevel, zapcore.AddSync(os.Stdout), zapcore.AddSync(os.Stderr))
}

// watchConfig 設定在啟動後不再變更；檔案異動時只套用 LOG__LEVEL，其他區段需重啟
func watchConfig() {
	if watcher == nil {
		return
	}
	watcher.OnConfigChange(func(in fsnotify.Event) {
		next := &config.Configuration{}
		if err := watcher.Unmarshal(next); err != nil {
			logger.Warn("config change ignored: unmarshal failed", zap.String("file", in.Name), zap.Error(err))
			return
		}
		if Version != "" {
			next.App.Version = Version
		}
		if err := validate.Config(next); err != nil {
			logger.Warn("config change ignored: invalid", zap.String("file", in.Name), zap.Error(err))
			return
		}
		if err := config.CheckReload(conf, next); err != nil {
			logger.Warn("config change ignored", zap.String("file", in.Name), zap.Error(err))
			return
		}
		level, err := log.ParseLevel(next.Log.Level)
		if err != nil {
			return
		}
		if level != logLevel.Level() {
			logLevel.SetLevel(level)
			logger.Info("log level changed", zap.Stringer("level", level))
		}
	})
	watcher.WatchConfig()
}

func initConfig() {
	v := viper.NewWithOptions(viper.KeyDelimiter("__"))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	v.AutomaticEnv()
	config.SetDefaults(v)

	useFile := false

	if envPath != "" {
		useFile = true
		envPath = path.Resolve(envPath, rootPath)
		fmt.Println("load .env config:", envPath)
		v.SetConfigFile(envPath)
		v.SetConfigType("env")
	} else if yamlPath != "" {
		useFile = true
		yamlPath = path.Resolve(yamlPath, rootPath, "conf")
		fmt.Println("load yaml config:", yamlPath)
		v.SetConfigFile(yamlPath)
		v.SetConfigType("yaml")
	} else {
		fmt.Println("No configuration file specified, using environment variables only.")
	}

	if useFile {
		if err := v.ReadInConfig(); err != nil {
			panic(fmt.Errorf("read config failed: %w", err))
		}
		watcher = v
	}

	bindEnvs(v, reflect.TypeOf(config.Configuration{}))

	conf = &config.Configuration{}
	if err := v.Unmarshal(conf); err != nil {
		panic(fmt.Errorf("unmarshal config failed: %w", err))
	}
	if Version != "" {
		conf.App.Version = Version
	}
	if err := validate.Config(conf); err != nil {
		panic(err)
	}
}

func bindEnvs(v *viper.Viper, t reflect.Type, path ...string) {
	// 若遇到指標，取其 Elem
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" || tag == "-" {
			tag = field.Name
		}
		newPath := append(append([]string{}, path...), tag)
		if field.Type.Kind() == reflect.Struct || (field.Type.Kind() == reflect.Ptr && field.Type.Elem().Kind() == reflect.Struct) {
			bindEnvs(v, field.Type, newPath...)
		} else {
			key := strings.Join(newPath, "__")
			// APP__PORT 已在 SetDefaults 綁定 PORT 別名
			if key == "APP__PORT" {
				continue
			}
			_ = v.BindEnv(key)
		}
	}
}
