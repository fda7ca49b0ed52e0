package dialect

import (
	"fmt"
	"strings"

	"github.com/relloyd/starpipe/constants"
	"github.com/relloyd/starpipe/helper"
	td "github.com/relloyd/starpipe/table-definition"
)

type Redshift struct{}

func NewRedshift() *Redshift {
	return &Redshift{}
}

func (r *Redshift) Name() string {
	return constants.DialectRedshift
}

func (r *Redshift) Mapper() td.Mapper {
	return td.RedshiftDataTypeMapping
}

func (r *Redshift) CreateTable(t td.Table) []string {
	return []string{td.CreateTableSQL(t, td.MapperColumnType(r.Mapper(), func(td.Table, td.Column) string {
		return "BIGINT IDENTITY(0,1)"
	}))}
}

func (r *Redshift) DropTable(t td.Table) []string {
	return []string{td.DropTableSQL(t)}
}

func (r *Redshift) EpochMillisToTimestamp(expr string) string {
	return fmt.Sprintf("TIMESTAMP 'epoch' + CAST(%v AS BIGINT) / 1000 * INTERVAL '1 second'", expr)
}

func (r *Redshift) NeedsResolvedPaths() bool {
	return false
}

// BulkLoad renders a COPY from S3 authorised by an IAM role.
// Automatic compression analysis and statistics updates are switched off.
func (r *Redshift) BulkLoad(b BulkLoad) (string, error) {
	if err := requireSource(b); err != nil {
		return "", err
	}
	if b.Credential == "" {
		return "", fmt.Errorf("missing IAM role ARN for bulk load into %v", b.Table.Name)
	}
	format := helper.QuoteLiteral("auto")
	if !b.Format.IsAuto() {
		location := b.Format.JSONPathsLocation
		if location == "" {
			location = b.Format.Mapping.Location
		}
		format = helper.QuoteLiteral(location)
	}
	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("COPY %v FROM %v\n", b.Table.Name, helper.QuoteLiteral(b.Source)))
	sb.WriteString(fmt.Sprintf("IAM_ROLE %v\n", helper.QuoteLiteral(b.Credential)))
	sb.WriteString(fmt.Sprintf("FORMAT AS JSON %v\n", format))
	sb.WriteString("COMPUPDATE OFF STATUPDATE OFF")
	if b.Region != "" {
		sb.WriteString(fmt.Sprintf("\nREGION %v", helper.QuoteLiteral(b.Region)))
	}
	return sb.String(), nil
}
