package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/noah-isme/agri-dcp-console/internal/api"
	"github.com/noah-isme/agri-dcp-console/internal/entity"
	"github.com/noah-isme/agri-dcp-console/internal/query"
	appErrors "github.com/noah-isme/agri-dcp-console/pkg/errors"
)

var (
	payloadFile   string
	deleteConfirm bool
)

var getCmd = &cobra.Command{
	Use:   "get <kind> <id>",
	Short: "Show one record",
	Args:  cobra.ExactArgs(2),
	RunE:  runGet,
}

var createCmd = &cobra.Command{
	Use:   "create <kind>",
	Short: "Create a record from a JSON payload",
	Long: `Create a record. The payload is read from --file, or from stdin
when --file is "-".

Example:
  agri-console create farmer --file farmer.json`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

var updateCmd = &cobra.Command{
	Use:   "update <kind> <id>",
	Short: "Update a record from a JSON payload",
	Args:  cobra.ExactArgs(2),
	RunE:  runUpdate,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <kind> <id>",
	Short: "Delete a record and reload the list",
	Args:  cobra.ExactArgs(2),
	RunE:  runDelete,
}

func init() {
	createCmd.Flags().StringVarP(&payloadFile, "file", "f", "", "JSON payload file, or - for stdin")
	updateCmd.Flags().StringVarP(&payloadFile, "file", "f", "", "JSON payload file, or - for stdin")
	deleteCmd.Flags().BoolVarP(&deleteConfirm, "yes", "y", false, "skip the confirmation prompt")
}

func runGet(cmd *cobra.Command, args []string) error {
	kind, err := entity.Lookup(args[0])
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	record, err := app.API.Get(cmd.Context(), kind, args[1])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(out, "%s: %s\n", k, record.StringField(k))
	}
	return nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	kind, err := entity.Lookup(args[0])
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	payload, err := readPayload(cmd, kind)
	if err != nil {
		return err
	}

	record, err := app.API.Create(cmd.Context(), kind, payload)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s\n", kind.Name, record.StringField(kind.IDField))
	return nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	kind, err := entity.Lookup(args[0])
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	payload, err := readPayload(cmd, kind)
	if err != nil {
		return err
	}

	if _, err := app.API.Update(cmd.Context(), kind, args[1], payload); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %s\n", kind.Name, args[1])
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	kind, err := entity.Lookup(args[0])
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	id := args[1]

	if !deleteConfirm {
		fmt.Fprintf(cmd.OutOrStdout(), "Delete %s %s? [y/N] ", kind.Name, id)
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil || !strings.EqualFold(strings.TrimSpace(line), "y") {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
			return nil
		}
	}

	ctrl := query.New(kind, app.API, app.Logger)
	if err := ctrl.Delete(cmd.Context(), id); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", kind.Name, id)
	renderList(cmd, ctrl)
	return nil
}

func readPayload(cmd *cobra.Command, kind entity.Descriptor) (any, error) {
	if payloadFile == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "--file is required")
	}

	var raw []byte
	var err error
	if payloadFile == "-" {
		raw, err = io.ReadAll(cmd.InOrStdin())
	} else {
		raw, err = os.ReadFile(payloadFile)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "could not read payload")
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "payload is not a JSON object")
	}

	return api.DecodePayload(kind, raw)
}
