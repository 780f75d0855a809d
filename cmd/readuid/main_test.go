package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	meshscan "github.com/ZaparooProject/go-meshscan"
	testutil "github.com/ZaparooProject/go-meshscan/internal/testing"
	"github.com/ZaparooProject/go-meshscan/mfrc522"
)

func TestWaitForCard(t *testing.T) {
	t.Parallel()

	chip := testutil.NewVirtualChip()
	device := mfrc522.New(chip)
	require.NoError(t, device.Init(context.Background()))

	tag := testutil.NewVirtualMIFARE1K(nil)
	chip.PlaceTag(tag)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	uid, err := waitForCard(ctx, device, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, tag.UID, uid)
	assert.Equal(t, testutil.TagHalt, tag.State)
	assert.Equal(t, "MIFARE Classic 1K", mfrc522.CardType(device.LastSAK()))
}

func TestWaitForCard_Timeout(t *testing.T) {
	t.Parallel()

	chip := testutil.NewVirtualChip()
	device := mfrc522.New(chip)
	require.NoError(t, device.Init(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := waitForCard(ctx, device, time.Millisecond)
	require.ErrorIs(t, err, meshscan.ErrNoCard)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPrintCard(t *testing.T) {
	t.Parallel()

	require.NoError(t, printCard([]byte{0x04, 0xA3}, 0x00, "RFID01", time.Now()))
}
