package shared

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	sf "github.com/snowflakedb/gosnowflake"
)

type SnowflakeConnectionDetails struct {
	Account   string `errorTxt:"Snowflake account" mandatory:"yes"`
	DBName    string `errorTxt:"Snowflake db name" mandatory:"yes"`
	Schema    string `errorTxt:"Snowflake schema" mandatory:"yes"`
	User      string `errorTxt:"Snowflake username" mandatory:"yes"`
	Password  string `errorTxt:"Snowflake password" mandatory:"yes"`
	Warehouse string `errorTxt:"Snowflake warehouse"`
	RoleName  string `errorTxt:"Snowflake role name"`
}

func (d SnowflakeConnectionDetails) String() string {
	return fmt.Sprintf("snowflake://%v:%v@%v/%v/%v?warehouse=%v&role=%v",
		d.User,
		"xxxxxxx",
		d.Account,
		d.DBName,
		d.Schema,
		d.Warehouse,
		d.RoleName,
	)
}

var reSnowflakePrefix = regexp.MustCompile("^snowflake://")

// SnowflakeTrimDSN removes the prefix 'snowflake://' so the DSN can be given to the driver.
func SnowflakeTrimDSN(d string) string {
	return strings.TrimPrefix(d, "snowflake://")
}

// SnowflakeParseDSN converts a Snowflake DSN into native connection details.
// The prefix 'snowflake://' is removed from the DSN if it exists.
func SnowflakeParseDSN(d string) (*SnowflakeConnectionDetails, error) {
	// Validate the DSN starts with 'snowflake://'
	if !reSnowflakePrefix.MatchString(d) {
		return nil, errors.New("unsupported Snowflake DSN format")
	}
	// Parse the real DSN.
	cfg, err := sf.ParseDSN(SnowflakeTrimDSN(d))
	if err != nil {
		return nil, err
	}
	retval := &SnowflakeConnectionDetails{
		User:      cfg.User,
		Password:  cfg.Password,
		Schema:    cfg.Schema,
		DBName:    cfg.Database,
		Account:   cfg.Account,
		RoleName:  cfg.Role,
		Warehouse: cfg.Warehouse,
	}
	if cfg.Region != "" { // if region exists in the parsed config...
		// Add it to our account settings.
		retval.Account = fmt.Sprintf("%v.%v", retval.Account, cfg.Region)
	}
	return retval, nil
}
