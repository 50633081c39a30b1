package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fsutil"

	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		logger := fsutil.Logger()
		logger.Error().Err(err).Msg("fsutil failed")
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "fsutil",
		Short:         "filesystem helpers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config, err := fsutil.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				config.LogLevel = logLevel
			}
			fsutil.Configure(config)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "yaml config file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(
		mkdirCommand(),
		lsCommand(),
		rmCommand(),
		writeCommand(),
		fdsCommand(),
		paramsCommand(),
	)
	return root
}

func mkdirCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir PATH...",
		Short: "create directories and any missing parents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fsutil.CreateDirectories(cmd.Context(), args...)
		},
	}
}

func lsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ls DIR",
		Short: "list directory entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := fsutil.ListDir(args[0])
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func rmCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm FILE...",
		Short: "delete files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				if err := fsutil.DeleteFile(path); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func writeCommand() *cobra.Command {
	var data string
	var clobber bool
	cmd := &cobra.Command{
		Use:   "write FILE",
		Short: "write a file, creating its directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := fsutil.CreateParentDirectory(args[0]); err != nil {
				return err
			}
			return fsutil.WriteFile(args[0], []byte(data), clobber)
		},
	}
	cmd.Flags().StringVar(&data, "data", "", "file contents")
	cmd.Flags().BoolVar(&clobber, "clobber", false, "overwrite an existing file")
	return cmd
}

func fdsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fds",
		Short: "list open file descriptors of this process",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fds, err := fsutil.GetOpenFileDescriptors()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), fds)
			return nil
		},
	}
}

func paramsCommand() *cobra.Command {
	var verbosity int
	var strict bool
	cmd := &cobra.Command{
		Use:   "params FILE [KEY...]",
		Short: "print parameters from a yaml param file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := fsutil.LoadParamFile(args[0], verbosity)
			if err != nil {
				return err
			}
			keys := args[1:]
			if len(keys) == 0 {
				keys = p.Keys()
			}
			for _, key := range keys {
				values, err := fsutil.ReadVector[string](p, key)
				if err != nil {
					return err
				}
				if len(values) == 1 {
					fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, values[0])
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s = %v\n", key, values)
				}
			}
			_, err = p.CheckUnusedParams(strict)
			return err
		},
	}
	cmd.Flags().IntVar(&verbosity, "verbosity", 0, "0 quiet, 1 announce defaults, 2 announce every value")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on parameters not requested")
	return cmd
}
