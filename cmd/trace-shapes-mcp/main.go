package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/trace-shapes-mcp/internal/capture"
	"github.com/ironsheep/trace-shapes-mcp/internal/config"
	"github.com/ironsheep/trace-shapes-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("trace-shapes-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("trace-shapes-mcp - MCP server for pointer-trace shape recognition")
			fmt.Println()
			fmt.Println("Usage: trace-shapes-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Printf("  %s=debug          Enable debug logging\n", config.EnvLogLevel)
			fmt.Printf("  %s      Shape threshold fraction (default 0.25)\n", config.EnvToleranceGeneral)
			fmt.Printf("  %s       Circle radius band fraction (default 0.25)\n", config.EnvToleranceCircle)
			fmt.Printf("  %s      Line distance in pixels (default 10)\n", config.EnvToleranceLinePx)
			fmt.Printf("  %s     Ellipse centre offset in pixels (default 100)\n", config.EnvEllipseCentrumPx)
			fmt.Printf("  %s      Ellipse symmetry band fraction (default 0.5)\n", config.EnvToleranceEllipse)
			fmt.Printf("  %s          Poll cycles per second (default 20)\n", config.EnvFrameRate)
			fmt.Printf("  %s     Still cycles that end a trace (default 5)\n", config.EnvEndTimeout)
			fmt.Printf("  %s          Max shapes kept in history (default %d)\n", config.EnvHistoryLimit, config.DefaultHistoryLimit)
			fmt.Printf("  %s            Serial pointer device for trace_capture\n", config.EnvSerialPort)
			fmt.Printf("  %s            Baud rate of the device (default %d)\n", config.EnvSerialBaud, capture.DefaultBaudRate)
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	settings, err := config.FromEnv()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if settings.Debug {
		log.Printf("Trace Shapes MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		log.Printf("Classifier tolerances: %+v", settings.Classifier)
	}

	server.Version = Version
	srv, err := server.New(settings)
	if err != nil {
		log.Fatalf("Server setup error: %v", err)
	}

	if settings.SerialPort != "" {
		source, err := capture.OpenSerial(settings.SerialPort, settings.Serial)
		if err != nil {
			log.Fatalf("Pointer device error: %v", err)
		}
		defer source.Close()
		srv.SetSource(source)
		if settings.Debug {
			log.Printf("Capturing from %s", settings.SerialPort)
		}
	}

	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
