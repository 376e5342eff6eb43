package terminal

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCLI_Run(t *testing.T) {
	dir := t.TempDir()
	customers := writeFile(t, dir, "customers.csv", "customer_id,email,phone,registration_date\n"+
		"C1,a@example.com,9876543210,2024-01-02\n"+
		"C2,,9876543211,2024-01-03\n")
	products := writeFile(t, dir, "products.csv", "product_id,category,price,stock_quantity\n"+
		"P1,toys,10,\n")
	sales := writeFile(t, dir, "sales.csv", "customer_id,product_id,quantity,unit_price,transaction_date,status\n"+
		"C1,P1,3,10,2024-02-01,Completed\n")
	dbPath := filepath.Join(dir, "fleximart.sqlite")
	reportPath := filepath.Join(dir, "report.txt")
	configPath := writeFile(t, dir, "fleximart.yaml", "inputs:\n"+
		"  customers: "+customers+"\n"+
		"  products: "+products+"\n"+
		"  sales: "+sales+"\n"+
		"destination: sqlite://"+dbPath+"\n"+
		"report_path: "+reportPath+"\n"+
		"log_level: error\n")

	var out bytes.Buffer
	cli := NewCLI(Options{Output: &out, ProfilesPath: filepath.Join(dir, "profiles")})
	cli.SetArgs([]string{"run", "--config", configPath, "--env-file", filepath.Join(dir, ".env")})

	require.NoError(t, cli.Execute())

	expected := "Customers: Processed=2, Duplicates Removed=0, Missing Emails Removed=1, Loaded=1\n" +
		"Products: Processed=1, Missing Prices Filled=0, Missing Stock Filled=1, Loaded=1\n" +
		"Sales: Processed=1, Duplicates Removed=0, Missing Customer IDs Removed=0, Missing Product IDs Removed=0, Loaded=1\n"
	assert.Equal(t, expected, out.String())

	report, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Equal(t, expected, string(report))

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer db.Close()

	var total float64
	require.NoError(t, db.QueryRow(`SELECT total_amount FROM orders WHERE customer_id = ?`, "C1").Scan(&total))
	assert.Equal(t, 30.0, total)

	var status string
	require.NoError(t, db.QueryRow(`SELECT status FROM etl_runs`).Scan(&status))
	assert.Equal(t, "succeeded", status)
}

func TestCLI_Run_UnknownProfile(t *testing.T) {
	dir := t.TempDir()
	profiles := writeFile(t, dir, "profiles", "[local]\ndestination = sqlite://:memory:\n")

	cli := NewCLI(Options{Output: &bytes.Buffer{}, ProfilesPath: profiles})
	cli.SetArgs([]string{"run", "--profile", "prod", "--env-file", filepath.Join(dir, ".env")})

	err := cli.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profile not found")
}

func TestCLI_Profiles(t *testing.T) {
	dir := t.TempDir()
	profiles := writeFile(t, dir, "profiles", "[local]\ndestination = duckdb://fleximart.db\n\n"+
		"[warehouse]\ndestination = snowflake://etl@acct/FLEXIMART/PUBLIC\n")

	var out bytes.Buffer
	cli := NewCLI(Options{Output: &out, ProfilesPath: profiles})
	cli.SetArgs([]string{"profiles"})

	require.NoError(t, cli.Execute())
	assert.Equal(t, "Destination profiles:\nlocal\nwarehouse\n", out.String())
}
