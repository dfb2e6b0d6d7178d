package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	log2 "log"

	"github.com/fraiseql/fraiseql-go/config"
	"github.com/fraiseql/fraiseql-go/graphql"
	"github.com/fraiseql/fraiseql-go/log"
	"github.com/fraiseql/fraiseql-go/sqlgen"
	"github.com/fraiseql/fraiseql-go/types"
	"github.com/fraiseql/fraiseql-go/where"
)

// Environment variables prefixed with "FRAISEQL_" can override settings e.g. "FRAISEQL_VIEW"
const envVarPrefix = "fraiseql"

var logger log.Logger

var compileCmd = &cobra.Command{
	Use:   os.Args[0] + " --view [VIEW] [OPTIONS]",
	Short: "Compile a filter into a parameterized PostgreSQL SELECT",
	Long: "Compiles a JSON filter against a table shape and prints the " +
		"parameterized statement, for inspecting what a given GraphQL filter " +
		"turns into. Nothing is executed.",
	Args: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("view") == "" {
			return errors.New("view is required")
		}
		if viper.GetBool("unknown-columns") && len(viper.GetStringSlice("columns")) > 0 {
			return errors.New("columns and unknown-columns are mutually exclusive")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCompile()
	},
}

// Execute compiles the requested statement and prints it.
func Execute() {
	zapLogger, err := zap.NewProduction()
	if err != nil {
		log2.Fatalf("unable to initialize logger: %v", err)
	}

	logger = log.NewZapLogger(zapLogger)

	flags := compileCmd.PersistentFlags()
	flags.String("view", "", "view or table to select from (optionally schema-qualified)")
	flags.StringSlice("columns", nil, "native column names of the view")
	flags.String("jsonb-column", "data", "name of the JSONB payload column, empty for none")
	flags.Bool("unknown-columns", false, "treat the native column set as unknown")
	flags.String("filter", "", "filter as JSON, e.g. '{\"email\":{\"eq\":\"a@b.com\"}}'")
	flags.StringSlice("order-by", nil, "order entries in field_ASC / field_DESC form")
	flags.Int("limit", -1, "maximum number of rows, negative for none")
	flags.Int("offset", -1, "number of rows to skip, negative for none")
	flags.Bool("one", false, "compile a find-one statement (forces LIMIT 1)")

	flags.VisitAll(func(flag *pflag.Flag) {
		viper.BindPFlag(flag.Name, flags.Lookup(flag.Name))
	})
	viper.SetEnvPrefix(envVarPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := compileCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCompile() error {
	clause, err := parseFilter(viper.GetString("filter"))
	if err != nil {
		logger.Error("invalid filter", "error", err)
		return err
	}

	naming := config.NewDefaultNaming()
	orderArgs := viper.GetStringSlice("order-by")
	orderValues := make([]interface{}, len(orderArgs))
	for i, v := range orderArgs {
		orderValues[i] = v
	}
	orderBy, err := graphql.AdaptOrderBy(orderValues, naming)
	if err != nil {
		logger.Error("invalid order-by", "error", err)
		return err
	}

	stats := &sqlgen.Stats{}
	compiler := sqlgen.NewCompiler(sqlgen.WithLogger(logger), sqlgen.WithStats(stats))

	shape := tableShape()
	opts := queryOptions()
	view := viper.GetString("view")

	var compiled *types.CompiledQuery
	if viper.GetBool("one") {
		compiled, err = compiler.BuildSelectOne(view, clause, orderBy, opts, shape)
	} else {
		compiled, err = compiler.BuildSelect(view, clause, orderBy, opts, shape)
	}
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(compiled, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	snapshot := stats.Snapshot()
	logger.Debug("compile finished", "duration", snapshot.Duration, "params", len(compiled.Params))
	return nil
}

func parseFilter(raw string) (*types.FilterClause, error) {
	if raw == "" {
		return types.NewFilterClause(), nil
	}
	decoder := json.NewDecoder(strings.NewReader(raw))
	decoder.UseNumber()
	var m map[string]interface{}
	if err := decoder.Decode(&m); err != nil {
		return nil, fmt.Errorf("filter is not valid JSON: %w", err)
	}
	return where.NormalizeMap(m)
}

func tableShape() *types.TableShape {
	jsonbColumn := viper.GetString("jsonb-column")
	if viper.GetBool("unknown-columns") {
		return &types.TableShape{JSONBColumn: jsonbColumn}
	}
	return types.NewTableShape(viper.GetStringSlice("columns"), jsonbColumn)
}

func queryOptions() *types.QueryOptions {
	opts := &types.QueryOptions{}
	if limit := viper.GetInt("limit"); limit >= 0 {
		opts.Limit = &limit
	}
	if offset := viper.GetInt("offset"); offset >= 0 {
		opts.Offset = &offset
	}
	if opts.Limit == nil && opts.Offset == nil {
		return nil
	}
	return opts
}
