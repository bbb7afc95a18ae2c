// Package prompt renders retrieved chunks and conversation history into the
// instruction text sent to the generation backend. All functions are pure.
package prompt

import (
	"fmt"
	"strings"

	"github.com/tanyahukum/tanya/internal/models"
)

// historyWindow is how many preceding turns are replayed into the context.
const historyWindow = 5

// BuildContext renders the ranked results as labeled blocks, followed by the
// recent visible conversation turns. The turn currently being answered is
// excluded, as are system turns (they are surfaced separately).
func BuildContext(results []models.SearchResult, history []models.ConversationTurn) string {
	var b strings.Builder

	b.WriteString("Here are some relevant documents to help answer the question:\n\n")
	for i, result := range results {
		b.WriteString(fmt.Sprintf("Document %d (Source: %s, Pages: %d-%d):\n",
			i+1, result.Chunk.Source, result.Chunk.PageStart, result.Chunk.PageEnd))
		b.WriteString(result.Chunk.Text)
		b.WriteString("\n\n")
	}

	if len(history) > 1 {
		b.WriteString("\nRecent conversation history:\n")
		start := len(history) - 1 - historyWindow
		if start < 0 {
			start = 0
		}
		for _, turn := range history[start : len(history)-1] {
			if turn.Role == models.RoleSystem {
				continue
			}
			b.WriteString(fmt.Sprintf("%s: %s\n", capitalize(string(turn.Role)), turn.Content))
		}
	}

	return b.String()
}

// BuildPrompt composes the full instruction for one turn: role instruction,
// context, answer-from-documents rules, the document catalog with the
// request-tag instructions, prior request outcomes, and the question.
func BuildPrompt(query, context string, availableDocuments, recentDocumentRequests []string) string {
	var b strings.Builder

	b.WriteString("Anda adalah asisten hukum yang ahli dalam hukum Indonesia. Berdasarkan dokumen-dokumen berikut, berikan jawaban yang relevan, jelas, dan mudah dipahami.\n\n")
	b.WriteString(context)
	b.WriteString("\n\nSilakan jawab pertanyaan di bawah ini berdasarkan informasi yang terdapat dalam dokumen di atas. Anda boleh menyusun ulang kalimat dengan bahasa Anda sendiri selama maknanya tetap sesuai dengan dokumen. Jangan menambahkan informasi dari luar dokumen. Jika dokumen tidak memuat informasi yang cukup, sampaikan bahwa jawabannya tidak tersedia.\n")

	if len(availableDocuments) > 0 {
		b.WriteString("\nJika Anda membutuhkan informasi tambahan yang mungkin ada dalam dokumen lain, Anda dapat meminta pengguna untuk memberikan izin mengakses dokumen tertentu. Berikut daftar dokumen yang tersedia:\n\n")
		b.WriteString(strings.Join(availableDocuments, ", "))
		b.WriteString("\n\nJika Anda ingin meminta dokumen tertentu, tambahkan tag [REQUEST_DOCUMENT:nama_dokumen] di akhir jawaban Anda (pengguna tidak akan melihat teks dalam tanda kurung siku ini).\n")
	}

	if len(recentDocumentRequests) > 0 {
		b.WriteString("\nInformasi terkait permintaan dokumen sebelumnya:\n")
		b.WriteString(strings.Join(recentDocumentRequests, " "))
		b.WriteString("\n")
	}

	b.WriteString("\nQuestion: ")
	b.WriteString(query)
	b.WriteString("\n\nAnswer:")

	return b.String()
}

// BuildFallbackPrompt is used when retrieval found nothing but the document
// catalog is known: the model must say so, propose the most plausible
// document by name, justify the choice, and may emit the request tag.
func BuildFallbackPrompt(query string, availableDocuments []string) string {
	var b strings.Builder

	b.WriteString("Anda adalah asisten hukum yang ahli dalam hukum Indonesia. Pengguna bertanya:\n\n")
	b.WriteString(fmt.Sprintf("\"%s\"\n\n", query))
	b.WriteString("Sayangnya, tidak ada dokumen yang relevan ditemukan dalam basis data kami. Namun, kami memiliki dokumen-dokumen berikut:\n\n")
	b.WriteString(strings.Join(availableDocuments, ", "))
	b.WriteString("\n\nBerdasarkan pertanyaan pengguna, dokumen mana yang mungkin berisi informasi yang relevan?\n")
	b.WriteString("Format respons Anda sebagai berikut:\n")
	b.WriteString("1. Beri tahu pengguna bahwa Anda tidak menemukan informasi yang relevan\n")
	b.WriteString("2. Tanyakan apakah mereka ingin Anda mencari informasi spesifik dalam [nama dokumen yang paling relevan]\n")
	b.WriteString("3. Jelaskan mengapa dokumen tersebut mungkin membantu\n\n")
	b.WriteString("Tambahkan [REQUEST_DOCUMENT:nama_dokumen] di bagian akhir respons Anda (pengguna tidak akan melihat teks dalam tanda kurung siku ini).\n")

	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
