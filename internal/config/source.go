package config

import (
	"strings"

	"github.com/alecthomas/kong"
	"golang.org/x/exp/slog"
)

const (
	SourceTypeECR   = "Amazon_ECR"
	SrcListAll      = "ALL"
	SrcListSelected = "SELECTED"
)

// SourceParams describes where the images to replicate come from. It is read
// from the function environment on every invocation.
type SourceParams struct {
	SourceType        string `name:"source-type" env:"SOURCE_TYPE" required:"" help:"Amazon_ECR or any other registry kind."`
	SrcList           string `name:"src-list" env:"SRC_LIST" required:"" help:"ALL or SELECTED."`
	SrcImageList      string `name:"selected-image-param" env:"SELECTED_IMAGE_PARAM" required:"" help:"SSM parameter holding the selected image list."`
	SrcRegion         string `name:"src-region" env:"SRC_REGION" required:"" help:"Region of the source registry."`
	SrcAccountID      string `name:"src-account-id" env:"SRC_ACCOUNT_ID" required:"" help:"Account of the source registry, empty for the current account."`
	SrcCredentialName string `name:"src-credential-name" env:"SRC_CREDENTIAL_NAME" required:"" help:"Secret holding credentials for the source account."`
}

// LoadSourceParams binds SourceParams from the environment. Every variable has
// to be set, although it may be empty.
func LoadSourceParams() (SourceParams, error) {
	var params SourceParams

	parser, err := kong.New(&params, kong.Name("list_images"))
	if err != nil {
		return SourceParams{}, newError("could not build source parameter parser", err)
	}

	if _, err = parser.Parse(nil); err != nil {
		return SourceParams{}, newError("could not read source parameters from environment", err)
	}
	return params, nil
}

func (p SourceParams) IsECR() bool {
	return p.SourceType == SourceTypeECR
}

func (p SourceParams) IsSelected() bool {
	return p.SrcList == SrcListSelected
}

// IsCrossAccount reports whether the source registry lives outside the account
// the function runs in, and so needs its own credentials.
func (p SourceParams) IsCrossAccount() bool {
	return p.SrcAccountID != ""
}

// ListingKey identifies the image listing of this source in the listing cache.
func (p SourceParams) ListingKey() string {
	return strings.Join([]string{p.SourceType, p.SrcRegion, p.SrcAccountID, p.SrcList}, "/")
}

func (p SourceParams) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("source_type", p.SourceType),
		slog.String("src_list", p.SrcList),
		slog.String("src_image_list", p.SrcImageList),
		slog.String("src_region", p.SrcRegion),
		slog.String("src_account_id", p.SrcAccountID),
		slog.String("src_credential_name", p.SrcCredentialName),
	)
}
