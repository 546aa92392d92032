package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/taigrr/glint/pkg/log"
	"github.com/taigrr/glint/pkg/output"
	"github.com/taigrr/glint/pkg/render"
	"github.com/taigrr/glint/pkg/scene"
)

// config is shared by every subcommand. Defaults come from GLINT_*
// environment variables, which a .env file may provide; flags win.
type config struct {
	Scene      string
	Width      int
	Height     int
	FOV        float64
	Workers    int
	ShadowBias float64
	LogLevel   string
	Out        string

	S3 output.S3Config
}

// loadEnv reads GLINT_ENV_FILE, or .env in the working directory. A
// missing file is not an error.
func loadEnv() error {
	path := getEnv("GLINT_ENV_FILE", ".env")
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return f
	}
	return fallback
}

// defaultConfig builds the config from the environment.
func defaultConfig() *config {
	return &config{
		Scene:      getEnv("GLINT_SCENE", "spheres"),
		Width:      getEnvInt("GLINT_WIDTH", 800),
		Height:     getEnvInt("GLINT_HEIGHT", 600),
		FOV:        getEnvFloat("GLINT_FOV", scene.DefaultFOV),
		Workers:    getEnvInt("GLINT_WORKERS", 0),
		ShadowBias: getEnvFloat("GLINT_SHADOW_BIAS", scene.DefaultShadowBias),
		LogLevel:   getEnv("GLINT_LOG_LEVEL", "info"),
		Out:        getEnv("GLINT_OUT", output.FrameName(0)),
		S3: output.S3Config{
			AccessKey: os.Getenv("GLINT_S3_ACCESS_KEY"),
			SecretKey: os.Getenv("GLINT_S3_SECRET_KEY"),
			Endpoint:  os.Getenv("GLINT_S3_ENDPOINT"),
			Region:    getEnv("GLINT_S3_REGION", "us-east-1"),
			Bucket:    os.Getenv("GLINT_S3_BUCKET"),
			Prefix:    os.Getenv("GLINT_S3_PREFIX"),
			ACL:       os.Getenv("GLINT_S3_ACL"),
		},
	}
}

// bind registers the persistent flags on cmd.
func (c *config) bind(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVarP(&c.Scene, "scene", "s", c.Scene, "built-in scene name or .gltf/.glb file")
	f.IntVar(&c.Width, "width", c.Width, "image width in pixels")
	f.IntVar(&c.Height, "height", c.Height, "image height in pixels")
	f.Float64Var(&c.FOV, "fov", c.FOV, "vertical field of view in degrees")
	f.IntVarP(&c.Workers, "workers", "j", c.Workers, "render goroutines (0 = one per CPU)")
	f.Float64Var(&c.ShadowBias, "shadow-bias", c.ShadowBias, "shadow ray offset along the surface normal")
	f.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, notice, warning or error")
	f.StringVarP(&c.Out, "out", "o", c.Out, "output PNG path")
}

// apply configures global state once flags are parsed.
func (c *config) apply() error {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	return nil
}

// loadScene resolves --scene to a built-in scene or a glTF file and applies
// the size and camera flags to it.
func (c *config) loadScene(cmd *cobra.Command, width, height int) (*scene.Scene, error) {
	var (
		s   *scene.Scene
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(c.Scene)); ext {
	case ".gltf", ".glb":
		s, err = scene.LoadGLTF(c.Scene, width, height)
		if err != nil {
			return nil, fmt.Errorf("load scene: %w", err)
		}
		if !cmd.Flags().Changed("fov") {
			// keep the document's camera FOV unless overridden
			c.FOV = s.FOV
		}
	default:
		s, err = scene.Builtin(c.Scene, width, height)
		if err != nil {
			return nil, err
		}
	}

	s.FOV = c.FOV
	s.ShadowBias = c.ShadowBias
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("scene %s: %w", c.Scene, err)
	}
	return s, nil
}

func (c *config) renderer(observer render.RowObserver) *render.Renderer {
	return render.NewRenderer(render.Options{Workers: c.Workers, Observer: observer})
}

func newRootCmd() *cobra.Command {
	cfg := defaultConfig()

	root := &cobra.Command{
		Use:   "glint",
		Short: "Ray trace spheres and planes on the CPU",
		Long: `glint casts one ray per pixel into a scene of spheres and planes,
finds the nearest surface and lights it with hard-shadowed directional and
point lights. Rows are split across goroutines.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cfg.apply()
		},
	}
	cfg.bind(root)

	root.AddCommand(
		newRenderCmd(cfg),
		newAnimateCmd(cfg),
		newPreviewCmd(cfg),
		newScenesCmd(),
	)
	return root
}
