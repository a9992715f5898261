// Package cmd provides the CLI commands for pagto.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"pagto/pkg/config"
	"pagto/pkg/db"
	"pagto/pkg/pathutil"
	"pagto/pkg/receipt"
	"pagto/pkg/service"
	"pagto/pkg/store"
)

var (
	envFile string
	debug   bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "pagto",
	Short: "Registra e consulta pagamentos pessoais",
	Long: `pagto é uma ferramenta de linha de comando para registrar,
consultar e agregar pagamentos pessoais.

Os comandos de listagem aceitam filtros no formato campo:valor:

  categoria, beneficiario, conta, devendo, pendente, data, valor, id

  pagto todos categoria:Alimentação pendente:s
  pagto todos valor:>100 beneficiario:supermercado
  pagto categoria conta:Nubank
  pagto todos sort:-valor

Os dados ficam em ~/.pagto por padrão (PAGTO_HOME para mudar).`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logLevel := slog.LevelInfo
		if debug {
			logLevel = slog.LevelDebug
		}

		slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.Kitchen,
		})))
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "arquivo .env (padrão: ./.env)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "habilita logs de depuração")

	// Add subcommands
	rootCmd.AddCommand(novoCmd)
	rootCmd.AddCommand(todosCmd)
	rootCmd.AddCommand(categoriaCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(deletadosCmd)
	rootCmd.AddCommand(editarCmd)
	rootCmd.AddCommand(statsCmd)
}

// app bundles the components wired for one command invocation.
type app struct {
	cfg      *config.Config
	conn     *db.Connection
	store    *store.PaymentStore
	payments *service.PaymentService
}

// openApp loads the configuration, opens the store (running the
// legacy flat-file import if it has never happened), and wires the
// lifecycle service.
func openApp() (*app, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	paths := pathutil.New(pathutil.Config{
		Home:        cfg.Home,
		DBPath:      cfg.DBPath,
		ReceiptsDir: cfg.ReceiptsDir,
		LegacyCSV:   cfg.LegacyCSV,
	})
	if err := paths.EnsureHome(); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	slog.Debug("Opening database", "path", paths.DatabasePath())
	conn, err := db.Open(paths.DatabasePath())
	if err != nil {
		return nil, err
	}

	st := store.New(conn)
	if _, err := st.ImportLegacyCSV(paths.LegacyCSVPath()); err != nil {
		conn.Close()
		return nil, err
	}

	receipts := receipt.NewStore(paths.ReceiptsDir())
	return &app{
		cfg:      cfg,
		conn:     conn,
		store:    st,
		payments: service.New(st, receipts),
	}, nil
}

// Close releases the database connection.
func (a *app) Close() {
	a.conn.Close()
}

// exitOnError logs the error and terminates the process.
func exitOnError(err error, msg string) {
	if err != nil {
		slog.Error(msg, "error", err)
		fmt.Fprintf(os.Stderr, "Erro: %s: %v\n", msg, err)
		os.Exit(1)
	}
}
