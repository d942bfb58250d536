package main

import (
	"fmt"
	"os"

	"ViralGen/internal/audio"

	"github.com/spf13/cobra"
)

func newWAVCommand() *cobra.Command {
	var (
		in, out  string
		isBase64 bool
		rate     int
		channels int
		bits     int
	)

	cmd := &cobra.Command{
		Use:   "wav",
		Short: "Wrap raw PCM in a WAV container",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(in)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			pcm := raw
			if isBase64 {
				pcm = audio.DecodeBase64(string(raw))
				if len(pcm) == 0 {
					return fmt.Errorf("input is not valid base64")
				}
			}

			wav, err := audio.EncodeWAV(pcm, audio.Format{SampleRate: rate, Channels: channels, BitsPerSample: bits})
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, wav, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}

			f, n, err := audio.ParseHeader(wav)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable(
				[]string{"File", "Rate", "Channels", "Bits", "Data bytes", "Duration"},
				[][]string{{
					out,
					fmt.Sprint(f.SampleRate),
					fmt.Sprint(f.Channels),
					fmt.Sprint(f.BitsPerSample),
					fmt.Sprint(n),
					fmt.Sprintf("%.2fs", float64(n)/float64(f.ByteRate())),
				}},
				[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
			)+"\n")
			return nil
		},
	}

	def := audio.GeminiTTSFormat
	cmd.Flags().StringVarP(&in, "in", "i", "", "Raw PCM input file")
	cmd.Flags().StringVarP(&out, "out", "o", "out.wav", "WAV output file")
	cmd.Flags().BoolVar(&isBase64, "base64", false, "Input holds base64 text instead of raw bytes")
	cmd.Flags().IntVar(&rate, "rate", def.SampleRate, "Sample rate in Hz")
	cmd.Flags().IntVar(&channels, "channels", def.Channels, "Channel count")
	cmd.Flags().IntVar(&bits, "bits", def.BitsPerSample, "Bits per sample")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}
