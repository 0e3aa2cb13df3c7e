// meshtool is a CLI utility for inspecting, converting and picking mesh files.
package main

import (
	"fmt"
	"os"

	"github.com/Faultbox/meshkit/internal/config"
	"github.com/Faultbox/meshkit/internal/logger"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	args = args[1:]

	switch command {
	case "info":
		err = cmdInfo(cfg, args)
	case "tree":
		err = cmdTree(cfg, args)
	case "export", "x":
		err = cmdExport(cfg, args)
	case "pick":
		err = cmdPick(cfg, args)
	case "watch":
		err = cmdWatch(cfg, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`meshtool - OBJ/STL/X3D mesh utility

Usage:
  meshtool [flags] <command> [args]

Commands:
  info <file>...              Show vertex, triangle and extent statistics
  tree <file>                 Print the model hierarchy
  export <file> <out.obj>     Convert to OBJ ("-" writes to stdout)
  pick <file> <x> <y>         Frame the model and report the mesh under a pixel
  watch <file>                Reload the model whenever it or its materials change

Flags:
  -config <path>   Config file
  -debug           Debug logging
  -width, -height  Viewport size used by pick
  -fov             Horizontal field of view

Examples:
  meshtool info teapot.obj bunny.stl
  meshtool export scene.x3d scene.obj
  meshtool -width 800 -height 600 pick teapot.obj 400 300`)
}
