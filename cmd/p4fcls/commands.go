package main

import (
	"fmt"
	"log"
	"net"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"github.com/p4fc/p4fc/internal/config"
	"github.com/p4fc/p4fc/internal/rpcapi"
)

func newServeCmd() *cobra.Command {
	var grpcAddr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "run the publishDiagnostics-only language server over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			config.IsLSPMode = true
			log.SetFlags(0)
			log.SetOutput(os.Stderr)

			if grpcAddr != "" {
				if err := serveGRPC(grpcAddr); err != nil {
					return err
				}
			}

			server := NewLanguageServer(os.Stdout)
			server.Start()
			return nil
		},
	}
	cmd.Flags().StringVar(&grpcAddr, "grpc", "", "also expose AnalyzeFile over gRPC at this address (e.g. :9191)")
	return cmd
}

// serveGRPC starts the AnalyzeFile unary service (internal/rpcapi) in the
// background on addr.
func serveGRPC(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	grpcServer := grpc.NewServer()
	rpcapi.Register(grpcServer, rpcapi.NewServer())
	go func() {
		log.Printf("AnalyzerService listening on %s", addr)
		if err := grpcServer.Serve(lis); err != nil {
			log.Printf("grpc serve error: %v", err)
		}
	}()
	return nil
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file.p4>",
		Short: "analyze a single file once and print diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := uuid.NewString()
			path := args[0]
			src, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("run=%s cannot read %s: %w", runID, path, err)
			}

			errs := rpcapi.DefaultAnalyze(path, string(src))
			if len(errs) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "run=%s %s: clean\n", runID, path)
				return nil
			}
			for _, e := range errs {
				fmt.Fprintln(cmd.OutOrStdout(), e.Error())
			}
			return fmt.Errorf("run=%s %s: %d diagnostic(s)", runID, path, len(errs))
		},
	}
}
