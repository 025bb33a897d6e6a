package handlers

import "adgen/internal/domain"

// failureMessage renders a user-facing description of a failed run. The copy
// distinguishes the stage that broke so the frontend can offer a sensible
// retry hint without parsing internal errors.
func failureMessage(locale string, stage domain.Stage, kind string) string {
	table := messagesEN
	if locale == "id" {
		table = messagesID
	}
	if byStage, ok := table[kind]; ok {
		if msg, ok := byStage[stage]; ok {
			return msg
		}
		if msg, ok := byStage[""]; ok {
			return msg
		}
	}
	if locale == "id" {
		return "Terjadi kesalahan tak terduga."
	}
	return "Something went wrong."
}

// Keyed by failure kind, then by the stage the failure happened at. The empty
// stage key is the kind's generic copy.
var messagesEN = map[string]map[domain.Stage]string{
	"insufficient_points": {
		"": "Not enough points for this model.",
	},
	"ledger": {
		"": "Point deduction failed. Your balance was not charged.",
	},
	"upload": {
		"": "Uploading the product photo failed. Please try again.",
	},
	"job_request": {
		domain.StageRemovingBackground: "Background removal could not be started.",
		domain.StageComposing:          "Composition could not be started.",
		"":                             "The generation request was rejected.",
	},
	"job_failed": {
		domain.StageRemovingBackground: "Background removal failed.",
		domain.StageComposing:          "Composition failed.",
		"":                             "Generation failed.",
	},
	"poll_timeout": {
		domain.StageRemovingBackground: "Background removal timed out.",
		domain.StageComposing:          "Composition timed out.",
		"":                             "Generation timed out.",
	},
	"model_asset_not_found": {
		"": "The selected model has no usable image.",
	},
	"compose": {
		"": "Composition failed.",
	},
	"internal": {
		"": "Something went wrong.",
	},
}

var messagesID = map[string]map[domain.Stage]string{
	"insufficient_points": {
		"": "Poin tidak cukup untuk model ini.",
	},
	"ledger": {
		"": "Pemotongan poin gagal. Saldo Anda tidak terpotong.",
	},
	"upload": {
		"": "Unggah foto produk gagal. Silakan coba lagi.",
	},
	"job_request": {
		domain.StageRemovingBackground: "Penghapusan latar tidak dapat dimulai.",
		domain.StageComposing:          "Komposisi tidak dapat dimulai.",
		"":                             "Permintaan generasi ditolak.",
	},
	"job_failed": {
		domain.StageRemovingBackground: "Penghapusan latar gagal.",
		domain.StageComposing:          "Komposisi gagal.",
		"":                             "Generasi gagal.",
	},
	"poll_timeout": {
		domain.StageRemovingBackground: "Penghapusan latar melebihi batas waktu.",
		domain.StageComposing:          "Komposisi melebihi batas waktu.",
		"":                             "Generasi melebihi batas waktu.",
	},
	"model_asset_not_found": {
		"": "Model yang dipilih tidak memiliki gambar yang dapat digunakan.",
	},
	"compose": {
		"": "Komposisi gagal.",
	},
	"internal": {
		"": "Terjadi kesalahan tak terduga.",
	},
}
