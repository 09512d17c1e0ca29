package gir

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/girkit/girgen/internal/version"
)

const sampleGir = `<?xml version="1.0"?>
<repository version="1.2"
            xmlns="http://www.gtk.org/introspection/core/1.0"
            xmlns:c="http://www.gtk.org/introspection/c/1.0">
  <namespace name="Gtk" version="3.0" shared-library="libgtk-3.so.0"
             c:symbol-prefixes="gtk">
    <enumeration name="Align" c:type="GtkAlign">
      <function name="to_string" c:identifier="gtk_align_to_string" version="3.10">
        <return-value transfer-ownership="none" nullable="1">
          <type name="utf8"/>
        </return-value>
        <parameters>
          <instance-parameter name="align">
            <type name="Align"/>
          </instance-parameter>
        </parameters>
      </function>
    </enumeration>
    <record name="TextIter" c:type="GtkTextIter">
      <method name="equal" c:identifier="gtk_text_iter_equal">
        <return-value transfer-ownership="none">
          <type name="gboolean"/>
        </return-value>
        <parameters>
          <instance-parameter name="iter">
            <type name="TextIter"/>
          </instance-parameter>
          <parameter name="other">
            <type name="TextIter"/>
          </parameter>
        </parameters>
      </method>
      <method name="copy" c:identifier="gtk_text_iter_copy" introspectable="0">
        <return-value transfer-ownership="full">
          <type name="TextIter"/>
        </return-value>
        <parameters>
          <instance-parameter name="iter">
            <type name="TextIter"/>
          </instance-parameter>
        </parameters>
      </method>
    </record>
  </namespace>
</repository>`

func TestParse(t *testing.T) {
	repo, err := Parse(strings.NewReader(sampleGir))
	require.NoError(t, err)

	ns := repo.Namespace
	assert.Equal(t, "Gtk", ns.Name)
	assert.Equal(t, "3.0", ns.Version)
	assert.Equal(t, "libgtk-3.so.0", ns.SharedLibrary)
	assert.Equal(t, "gtk", ns.CPrefix)
	require.Len(t, ns.Types, 2)

	align := ns.Types[0]
	assert.Equal(t, "Align", align.Name)
	assert.Equal(t, "GtkAlign", align.CType)
	assert.Equal(t, TypeEnumeration, align.Kind)
	require.Len(t, align.Functions, 1)

	toString := align.Functions[0]
	assert.Equal(t, "to_string", toString.Name)
	assert.Equal(t, "gtk_align_to_string", toString.CIdentifier)
	assert.True(t, toString.Generate)
	require.NotNil(t, toString.Version)
	assert.Equal(t, version.MustParse("3.10"), *toString.Version)
	require.NotNil(t, toString.Return)
	assert.Equal(t, "utf8", toString.Return.TypeName)
	assert.True(t, toString.Return.Nullable)
	assert.Equal(t, TransferNone, toString.Return.Transfer)
	require.Len(t, toString.Parameters, 1)
	assert.True(t, toString.Parameters[0].Instance)

	iter := ns.Types[1]
	assert.Equal(t, TypeOther, iter.Kind)
	require.Len(t, iter.Functions, 2)

	equal := iter.Functions[0]
	assert.Equal(t, "gtk_text_iter_equal", equal.CIdentifier)
	require.Len(t, equal.Parameters, 2)
	assert.True(t, equal.Parameters[0].Instance)
	assert.False(t, equal.Parameters[1].Instance)
	assert.Equal(t, "gboolean", equal.Return.TypeName)
	assert.False(t, equal.Return.Nullable)

	copyFn := iter.Functions[1]
	assert.False(t, copyFn.Generate, "introspectable=0 must clear the generate flag")
	assert.Equal(t, TransferFull, copyFn.Return.Transfer)
	assert.Equal(t, VisibilityPublic, copyFn.Visibility)
}

func TestParseRejectsBadXML(t *testing.T) {
	_, err := Parse(strings.NewReader("<repository><namespace"))
	assert.Error(t, err)
}

func TestParseRejectsBadVersion(t *testing.T) {
	const bad = `<repository xmlns:c="http://www.gtk.org/introspection/c/1.0">
  <namespace name="Gtk">
    <record name="Foo" c:type="GtkFoo" version="not-a-version"/>
  </namespace>
</repository>`
	_, err := Parse(strings.NewReader(bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Foo")
}
