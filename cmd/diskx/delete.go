package main

import (
	"encoding/json"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/diskx/diskx/internal/trash"
)

var deleteConfiguration struct {
	permanent bool
}

var deleteCommand = &cobra.Command{
	Use:   "delete <path>...",
	Short: "Delete one or more files/directories, independently per path",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDelete,
}

var trashInfoCommand = &cobra.Command{
	Use:   "trash-info",
	Short: "Show whether platform trash is supported and where it lives",
	RunE:  runTrashInfo,
}

func init() {
	flags := deleteCommand.Flags()
	flags.BoolVar(&deleteConfiguration.permanent, "permanent", false, "bypass the trash and remove paths directly")

	deleteCommand.AddCommand(trashInfoCommand)
}

func runDelete(cmd *cobra.Command, args []string) error {
	result := trash.DeleteFiles(args, !deleteConfiguration.permanent)

	if rootConfiguration.jsonOutput {
		data, err := json.Marshal(result)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	for _, p := range result.Deleted {
		fmt.Printf("deleted %s\n", p)
	}
	for _, f := range result.Failed {
		fmt.Printf("failed  %s: %s\n", f.Path, f.Error)
	}
	fmt.Printf("%d deleted, %d failed, %s freed\n",
		len(result.Deleted), len(result.Failed), humanize.Bytes(uint64(result.BytesFreed)))

	if len(result.Failed) > 0 {
		return fmt.Errorf("delete: %d path(s) failed", len(result.Failed))
	}
	return nil
}

func runTrashInfo(cmd *cobra.Command, args []string) error {
	supported := trash.IsTrashSupported()
	location, err := trash.TrashLocation()

	if rootConfiguration.jsonOutput {
		out := struct {
			Supported bool   `json:"supported"`
			Location  string `json:"location,omitempty"`
			Error     string `json:"error,omitempty"`
		}{Supported: supported, Location: location}
		if err != nil {
			out.Error = err.Error()
		}
		data, marshalErr := json.Marshal(out)
		if marshalErr != nil {
			return marshalErr
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("trash supported: %v\n", supported)
	if err != nil {
		fmt.Printf("trash location: unavailable (%v)\n", err)
		return nil
	}
	fmt.Printf("trash location: %s\n", location)
	return nil
}
