package ide

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePatchPathAcceptsCleanRelativePath(t *testing.T) {
	assert.NoError(t, ValidatePatchPath("src/Main.java"))
}

func TestValidatePatchPathRejectsParentSegment(t *testing.T) {
	assert.Equal(t, NonRelativePath, ValidatePatchPath("../escape/Main.java"))
}

func TestValidatePatchPathRejectsCurDirSegment(t *testing.T) {
	assert.Equal(t, NonRelativePath, ValidatePatchPath("./Main.java"))
}

func TestValidatePatchPathRejectsAbsolutePath(t *testing.T) {
	assert.Equal(t, NonRelativePath, ValidatePatchPath("/etc/passwd"))
}

func TestValidatePatchPathRejectsWindowsDrivePrefix(t *testing.T) {
	assert.Equal(t, NonRelativePath, ValidatePatchPath(`C:\Windows\Main.java`))
}

func TestValidatePatchPathRejectsUNCPath(t *testing.T) {
	assert.Equal(t, NonRelativePath, ValidatePatchPath(`\\server\share\Main.java`))
}

func TestValidatePatchPathRejectsRepeatedSeparator(t *testing.T) {
	assert.Equal(t, NonRelativePath, ValidatePatchPath("src//Main.java"))
}

func TestValidatePatchPathRejectsEmptyPath(t *testing.T) {
	assert.Equal(t, NonRelativePath, ValidatePatchPath(""))
}

func TestValidateNewFileRejectsCreationWhenDisallowed(t *testing.T) {
	err := ValidateNewFile("/ws", "src/New.java", false, false)
	assert.Equal(t, NewFileNotAllowed, err)
}

func TestValidateNewFileAllowsCreationWhenOptedIn(t *testing.T) {
	err := ValidateNewFile("/ws", "src/New.java", false, true)
	assert.NoError(t, err)
}

func TestValidateNewFileAllowsExistingFile(t *testing.T) {
	err := ValidateNewFile("/ws", "src/Existing.java", true, false)
	assert.NoError(t, err)
}
