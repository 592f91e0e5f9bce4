package cmd

import (
	"github.com/spf13/cobra"

	vogdb "github.com/yumyai/vogapi/pkg/db"
)

// exportCmd writes the species and group tables to SQLite.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export species and groups to a SQLite database",
	Long: `Load the species listing and the joined group tables and write them to
a new SQLite file with the tables species, vog_groups, group_proteins and
group_species. Sequences are not exported.`,
	Example: "  vogapi export --data /srv/vog --out vog.db",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		force, _ := cmd.Flags().GetBool("force")

		vdb, err := openDB()
		if err != nil {
			return err
		}
		defer vdb.Close()

		return vogdb.ExportSQLite(cmd.Context(), vdb, out, force)
	},
}

// set flags
func init() {
	exportCmd.Flags().StringP("out", "o", "vog.db", "SQLite file to write")
	exportCmd.Flags().BoolP("force", "f", false, "replace the output file if it exists")

	rootCmd.AddCommand(exportCmd)
}
